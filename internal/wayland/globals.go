package wayland

import (
	"fmt"
	"sort"
	"strings"

	"github.com/1broseidon/swcursor/internal/platform"
	"github.com/neurlang/wayland/wl"
)

const (
	ifaceCompositor = "wl_compositor"
	ifaceShm        = "wl_shm"
	ifaceSeat       = "wl_seat"
	ifaceWmBase     = "xdg_wm_base"
)

// wanted maps every required global to the highest version we speak.
var wanted = map[string]uint32{
	ifaceCompositor: 4,
	ifaceShm:        1,
	ifaceSeat:       5,
	ifaceWmBase:     1,
}

type global struct {
	name    uint32
	version uint32
}

// globalSet records the advertised globals we care about.
type globalSet struct {
	found map[string]global
}

func newGlobalSet() *globalSet {
	return &globalSet{found: make(map[string]global)}
}

func (g *globalSet) HandleRegistryGlobal(ev wl.RegistryGlobalEvent) {
	if _, ok := wanted[ev.Interface]; !ok {
		return
	}
	// Keep the first advertisement; a second seat is not used.
	if _, ok := g.found[ev.Interface]; ok {
		return
	}
	g.found[ev.Interface] = global{name: ev.Name, version: ev.Version}
}

// missing reports required interfaces that were not advertised.
func (g *globalSet) missing() error {
	var names []string
	for iface := range wanted {
		if _, ok := g.found[iface]; !ok {
			names = append(names, iface)
		}
	}
	if len(names) == 0 {
		return nil
	}
	sort.Strings(names)
	return fmt.Errorf("%w: %s", platform.ErrMissingGlobal, strings.Join(names, ", "))
}

// bindVersion returns the version to bind iface at.
func (g *globalSet) bindVersion(iface string) uint32 {
	v := g.found[iface].version
	if w := wanted[iface]; v > w {
		return w
	}
	return v
}

func (g *globalSet) bind(reg *wl.Registry, iface string, proxy wl.Proxy) error {
	gl, ok := g.found[iface]
	if !ok {
		return fmt.Errorf("%w: %s", platform.ErrMissingGlobal, iface)
	}
	if err := reg.Bind(gl.name, iface, g.bindVersion(iface), proxy); err != nil {
		return fmt.Errorf("bind %s: %w", iface, err)
	}
	return nil
}
