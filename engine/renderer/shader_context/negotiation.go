package shader_context

import (
	"github.com/Carmen-Shannon/oxy-gl/engine/platform"
	"github.com/Carmen-Shannon/oxy-gl/engine/renderer/shader"
)

// DefaultSwapIntervals is the vertical sync policy: late swap tearing when the driver has it,
// classic vsync otherwise.
//
// Returns:
//   - []int: swap intervals in preference order
func DefaultSwapIntervals() []int {
	return []int{platform.SwapIntervalAdaptive, platform.SwapIntervalVSync}
}

// contextDriver exposes the identity captured by Initialize and the platform's extension
// probe to backends as a shader.Driver.
type contextDriver struct {
	identity platform.Identity
	platform platform.Platform
}

var _ shader.Driver = &contextDriver{}

func (d *contextDriver) Version() string {
	return d.identity.Version
}

func (d *contextDriver) ShadingLanguageVersion() string {
	return d.identity.ShadingLanguageVersion
}

func (d *contextDriver) ExtensionSupported(name string) bool {
	return d.platform.ExtensionSupported(name)
}

func (d *contextDriver) CoreProfile() bool {
	return d.identity.CoreProfile
}

// configureAttributes requests sharing with the current context and double buffering for the
// context created by Initialize. A rejected attribute is logged and otherwise ignored.
func (c *shaderContext) configureAttributes() {
	attributes := []struct {
		attr  platform.Attribute
		value int
	}{
		{platform.AttributeShareWithCurrentContext, 1},
		{platform.AttributeDoubleBuffer, 1},
	}
	for _, a := range attributes {
		if err := c.platform.SetAttribute(a.attr, a.value); err != nil {
			c.logger.Warn("context attribute rejected", "attribute", a.attr, "error", err)
		}
	}
}

// negotiateSwapInterval applies the first interval of the policy the driver accepts.
// A rejected interval is not an error, the next narrower one is tried instead.
func (c *shaderContext) negotiateSwapInterval() int {
	for _, interval := range c.swapIntervals {
		if err := c.platform.SetSwapInterval(interval); err != nil {
			c.logger.Debug("swap interval rejected", "interval", interval, "error", err)
			continue
		}
		return interval
	}
	return 0
}

// negotiateBackend returns the first backend, in priority order, whose probe and
// initialization both succeed. Backends after the winner are never consulted.
func (c *shaderContext) negotiateBackend(d shader.Driver) shader.Backend {
	for _, b := range c.backends {
		if !b.Supported(d) {
			c.logger.Debug("shading backend not supported", "backend", b.Kind())
			continue
		}
		if err := b.Init(d); err != nil {
			c.logger.Warn("shading backend failed to initialize", "backend", b.Kind(), "error", err)
			continue
		}
		return b
	}
	return nil
}
