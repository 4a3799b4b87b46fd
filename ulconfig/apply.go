package ulconfig

import (
	"errors"
	"fmt"

	"github.com/19h/ul2/appcore"
	"github.com/19h/ul2/ul"
)

var faceWindings = map[string]ul.FaceWinding{
	"clockwise":         ul.FaceWindingClockwise,
	"counter_clockwise": ul.FaceWindingCounterClockwise,
}

var fontHintings = map[string]ul.FontHinting{
	"smooth":     ul.FontHintingSmooth,
	"normal":     ul.FontHintingNormal,
	"monochrome": ul.FontHintingMonochrome,
	"none":       ul.FontHintingNone,
}

// Validate checks the values that have a fixed set of choices or a range.
func (o *Options) Validate() error {
	var errs []error
	if _, ok := faceWindings[o.Renderer.FaceWinding]; !ok {
		errs = append(errs, fmt.Errorf("renderer.face_winding: unknown value %q", o.Renderer.FaceWinding))
	}
	if _, ok := fontHintings[o.Renderer.FontHinting]; !ok {
		errs = append(errs, fmt.Errorf("renderer.font_hinting: unknown value %q", o.Renderer.FontHinting))
	}
	if o.Renderer.FontGamma <= 0 {
		errs = append(errs, fmt.Errorf("renderer.font_gamma: must be positive, got %v", o.Renderer.FontGamma))
	}
	if a := o.Renderer.BitmapAlignment; a != 0 && a&(a-1) != 0 {
		errs = append(errs, fmt.Errorf("renderer.bitmap_alignment: %d is not a power of two", a))
	}
	if o.View.InitialDeviceScale <= 0 {
		errs = append(errs, fmt.Errorf("view.initial_device_scale: must be positive, got %v", o.View.InitialDeviceScale))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("ulconfig: %w", err)
	}
	return nil
}

// ApplyConfig writes the renderer options into cfg.
func (o *Options) ApplyConfig(cfg *ul.Config) error {
	r := o.Renderer
	winding, ok := faceWindings[r.FaceWinding]
	if !ok {
		return fmt.Errorf("ulconfig: unknown face winding %q", r.FaceWinding)
	}
	hinting, ok := fontHintings[r.FontHinting]
	if !ok {
		return fmt.Errorf("ulconfig: unknown font hinting %q", r.FontHinting)
	}
	return firstError(
		cfg.SetCachePath(r.CachePath),
		cfg.SetResourcePathPrefix(r.ResourcePathPrefix),
		cfg.SetFaceWinding(winding),
		cfg.SetFontHinting(hinting),
		cfg.SetFontGamma(r.FontGamma),
		cfg.SetUserStylesheet(r.UserStylesheet),
		cfg.SetForceRepaint(r.ForceRepaint),
		cfg.SetAnimationTimerDelay(r.AnimationTimerDelay),
		cfg.SetScrollTimerDelay(r.ScrollTimerDelay),
		cfg.SetRecycleDelay(r.RecycleDelay),
		cfg.SetMemoryCacheSize(r.MemoryCacheSize),
		cfg.SetPageCacheSize(r.PageCacheSize),
		cfg.SetOverrideRAMSize(r.OverrideRAMSize),
		cfg.SetMinLargeHeapSize(r.MinLargeHeapSize),
		cfg.SetMinSmallHeapSize(r.MinSmallHeapSize),
		cfg.SetNumRendererThreads(r.NumRendererThreads),
		cfg.SetMaxUpdateTime(r.MaxUpdateTime),
		cfg.SetBitmapAlignment(r.BitmapAlignment),
	)
}

// ApplyViewConfig writes the view options into cfg.
func (o *Options) ApplyViewConfig(cfg *ul.ViewConfig) error {
	v := o.View
	return firstError(
		cfg.SetDisplayID(v.DisplayID),
		cfg.SetIsAccelerated(v.IsAccelerated),
		cfg.SetIsTransparent(v.IsTransparent),
		cfg.SetInitialDeviceScale(v.InitialDeviceScale),
		cfg.SetInitialFocus(v.InitialFocus),
		cfg.SetEnableImages(v.EnableImages),
		cfg.SetEnableJavaScript(v.EnableJavaScript),
		cfg.SetFontFamilyStandard(v.FontFamilyStandard),
		cfg.SetFontFamilyFixed(v.FontFamilyFixed),
		cfg.SetFontFamilySerif(v.FontFamilySerif),
		cfg.SetFontFamilySansSerif(v.FontFamilySansSerif),
		cfg.SetUserAgent(v.UserAgent),
	)
}

// ApplySettings writes the app options into s.
func (o *Options) ApplySettings(s *appcore.Settings) error {
	a := o.App
	return firstError(
		s.SetDeveloperName(a.DeveloperName),
		s.SetAppName(a.AppName),
		s.SetFileSystemPath(a.FileSystemPath),
		s.SetLoadShadersFromFileSystem(a.LoadShadersFromFileSystem),
		s.SetForceCPURenderer(a.ForceCPURenderer),
	)
}

// NewConfig creates a ul.Config holding the renderer options.
func (o *Options) NewConfig() (*ul.Config, error) {
	cfg, err := ul.NewConfig()
	if err != nil {
		return nil, err
	}
	if err := o.ApplyConfig(cfg); err != nil {
		cfg.Close()
		return nil, err
	}
	return cfg, nil
}

// NewViewConfig creates a ul.ViewConfig holding the view options.
func (o *Options) NewViewConfig() (*ul.ViewConfig, error) {
	cfg, err := ul.NewViewConfig()
	if err != nil {
		return nil, err
	}
	if err := o.ApplyViewConfig(cfg); err != nil {
		cfg.Close()
		return nil, err
	}
	return cfg, nil
}

// NewSettings creates appcore.Settings holding the app options.
func (o *Options) NewSettings() (*appcore.Settings, error) {
	s, err := appcore.NewSettings()
	if err != nil {
		return nil, err
	}
	if err := o.ApplySettings(s); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func firstError(errs ...error) error {
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
