package ul

import (
	"github.com/19h/ul2/ffi"
	"github.com/19h/ul2/internal/native"
)

// Config holds renderer-wide settings. It is read once, when the renderer
// is created.
type Config struct {
	h   *ffi.Handle
	api native.UL
}

// NewConfig creates a config with the library defaults.
func NewConfig() (*Config, error) {
	a := api()
	h, err := ffi.Owning("ul.config", a.CreateConfig(), a.DestroyConfig)
	if err != nil {
		return nil, err
	}
	c := &Config{h: h, api: a}
	leakFinalizer(c, h)
	return c, nil
}

// Raw returns the ULConfig, or null after Close.
func (c *Config) Raw() ffi.Ptr { return c.h.Raw() }

// Close destroys the config. A renderer created from it keeps its copy.
func (c *Config) Close() error { return c.h.Close() }

func (c *Config) setString(field native.ConfigField, s string) error {
	raw, err := c.h.Check()
	if err != nil {
		return err
	}
	tmp, release, err := tempString(c.api, "ul.config."+field.String(), s)
	if err != nil {
		return err
	}
	defer release()
	c.api.ConfigSetString(raw, field, tmp)
	return nil
}

func (c *Config) set(fn func(raw ffi.Ptr)) error {
	raw, err := c.h.Check()
	if err != nil {
		return err
	}
	fn(raw)
	return nil
}

// SetCachePath sets the directory for persistent session data.
func (c *Config) SetCachePath(path string) error {
	return c.setString(native.ConfigCachePath, path)
}

// SetResourcePathPrefix sets the prefix of the bundled resources (ICU data,
// certificates) relative to the file system root.
func (c *Config) SetResourcePathPrefix(prefix string) error {
	return c.setString(native.ConfigResourcePathPrefix, prefix)
}

// SetFaceWinding sets the winding order of front-facing triangles.
func (c *Config) SetFaceWinding(w FaceWinding) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetUint(raw, native.ConfigFaceWinding, uint32(w)) })
}

// SetFontHinting sets how glyph outlines are fitted to the pixel grid.
func (c *Config) SetFontHinting(h FontHinting) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetUint(raw, native.ConfigFontHinting, uint32(h)) })
}

// SetFontGamma sets the gamma used for font rendering.
func (c *Config) SetFontGamma(gamma float64) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetFloat(raw, native.ConfigFontGamma, gamma) })
}

// SetUserStylesheet sets CSS applied to every page.
func (c *Config) SetUserStylesheet(css string) error {
	return c.setString(native.ConfigUserStylesheet, css)
}

// SetForceRepaint makes every frame repaint the whole view.
func (c *Config) SetForceRepaint(enabled bool) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetBool(raw, native.ConfigForceRepaint, enabled) })
}

// SetAnimationTimerDelay sets the delay between animation frames.
func (c *Config) SetAnimationTimerDelay(seconds float64) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetFloat(raw, native.ConfigAnimationTimerDelay, seconds) })
}

// SetScrollTimerDelay sets the delay between smooth scroll steps.
func (c *Config) SetScrollTimerDelay(seconds float64) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetFloat(raw, native.ConfigScrollTimerDelay, seconds) })
}

// SetRecycleDelay sets how often unused memory is recycled.
func (c *Config) SetRecycleDelay(seconds float64) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetFloat(raw, native.ConfigRecycleDelay, seconds) })
}

// SetMemoryCacheSize sets the size of the resource cache.
func (c *Config) SetMemoryCacheSize(bytes uint32) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetUint(raw, native.ConfigMemoryCacheSize, bytes) })
}

// SetPageCacheSize sets how many pages are kept for back and forward
// navigation.
func (c *Config) SetPageCacheSize(pages uint32) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetUint(raw, native.ConfigPageCacheSize, pages) })
}

// SetOverrideRAMSize overrides the detected amount of system memory. Zero
// keeps the detected value.
func (c *Config) SetOverrideRAMSize(bytes uint32) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetUint(raw, native.ConfigOverrideRAMSize, bytes) })
}

// SetMinLargeHeapSize sets the initial size of the large object heap.
func (c *Config) SetMinLargeHeapSize(bytes uint32) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetUint(raw, native.ConfigMinLargeHeapSize, bytes) })
}

// SetMinSmallHeapSize sets the initial size of the small object heap.
func (c *Config) SetMinSmallHeapSize(bytes uint32) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetUint(raw, native.ConfigMinSmallHeapSize, bytes) })
}

// SetNumRendererThreads sets the size of the renderer's worker pool. Zero
// picks a value from the CPU count.
func (c *Config) SetNumRendererThreads(n uint32) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetUint(raw, native.ConfigNumRendererThreads, n) })
}

// SetMaxUpdateTime bounds the time spent in Renderer.Update, in seconds.
func (c *Config) SetMaxUpdateTime(seconds float64) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetFloat(raw, native.ConfigMaxUpdateTime, seconds) })
}

// SetBitmapAlignment sets the row alignment of surface bitmaps. Zero
// means tightly packed.
func (c *Config) SetBitmapAlignment(bytes uint32) error {
	return c.set(func(raw ffi.Ptr) { c.api.ConfigSetUint(raw, native.ConfigBitmapAlignment, bytes) })
}

// ViewConfig holds the settings of one view.
type ViewConfig struct {
	h   *ffi.Handle
	api native.UL
}

// NewViewConfig creates a view config with the library defaults.
func NewViewConfig() (*ViewConfig, error) {
	a := api()
	h, err := ffi.Owning("ul.view_config", a.CreateViewConfig(), a.DestroyViewConfig)
	if err != nil {
		return nil, err
	}
	c := &ViewConfig{h: h, api: a}
	leakFinalizer(c, h)
	return c, nil
}

// Raw returns the ULViewConfig, or null after Close.
func (c *ViewConfig) Raw() ffi.Ptr { return c.h.Raw() }

// Close destroys the view config.
func (c *ViewConfig) Close() error { return c.h.Close() }

func (c *ViewConfig) setString(field native.ViewConfigField, s string) error {
	raw, err := c.h.Check()
	if err != nil {
		return err
	}
	tmp, release, err := tempString(c.api, "ul.view_config."+field.String(), s)
	if err != nil {
		return err
	}
	defer release()
	c.api.ViewConfigSetString(raw, field, tmp)
	return nil
}

func (c *ViewConfig) setBool(field native.ViewConfigField, v bool) error {
	raw, err := c.h.Check()
	if err != nil {
		return err
	}
	c.api.ViewConfigSetBool(raw, field, v)
	return nil
}

// SetDisplayID sets the display the view starts on.
func (c *ViewConfig) SetDisplayID(id uint32) error {
	raw, err := c.h.Check()
	if err != nil {
		return err
	}
	c.api.ViewConfigSetUint(raw, native.ViewConfigDisplayID, id)
	return nil
}

// SetIsAccelerated renders the view on the GPU instead of into a surface.
func (c *ViewConfig) SetIsAccelerated(v bool) error {
	return c.setBool(native.ViewConfigIsAccelerated, v)
}

// SetIsTransparent makes the view background transparent.
func (c *ViewConfig) SetIsTransparent(v bool) error {
	return c.setBool(native.ViewConfigIsTransparent, v)
}

// SetInitialDeviceScale sets the starting ratio of pixels to points.
func (c *ViewConfig) SetInitialDeviceScale(scale float64) error {
	raw, err := c.h.Check()
	if err != nil {
		return err
	}
	c.api.ViewConfigSetFloat(raw, native.ViewConfigInitialDeviceScale, scale)
	return nil
}

// SetInitialFocus gives the view input focus when it is created.
func (c *ViewConfig) SetInitialFocus(v bool) error {
	return c.setBool(native.ViewConfigInitialFocus, v)
}

// SetEnableImages turns image loading on or off.
func (c *ViewConfig) SetEnableImages(v bool) error {
	return c.setBool(native.ViewConfigEnableImages, v)
}

// SetEnableJavaScript turns script execution on or off.
func (c *ViewConfig) SetEnableJavaScript(v bool) error {
	return c.setBool(native.ViewConfigEnableJavaScript, v)
}

// SetFontFamilyStandard sets the default font family.
func (c *ViewConfig) SetFontFamilyStandard(family string) error {
	return c.setString(native.ViewConfigFontFamilyStandard, family)
}

// SetFontFamilyFixed sets the monospace font family.
func (c *ViewConfig) SetFontFamilyFixed(family string) error {
	return c.setString(native.ViewConfigFontFamilyFixed, family)
}

// SetFontFamilySerif sets the serif font family.
func (c *ViewConfig) SetFontFamilySerif(family string) error {
	return c.setString(native.ViewConfigFontFamilySerif, family)
}

// SetFontFamilySansSerif sets the sans-serif font family.
func (c *ViewConfig) SetFontFamilySansSerif(family string) error {
	return c.setString(native.ViewConfigFontFamilySansSerif, family)
}

// SetUserAgent sets the User-Agent header and navigator.userAgent.
func (c *ViewConfig) SetUserAgent(agent string) error {
	return c.setString(native.ViewConfigUserAgent, agent)
}
