package render

import (
	"fmt"
	"log/slog"
	"unsafe"

	vk "github.com/vulkan-go/vulkan"
)

const validationLayer = "VK_LAYER_KHRONOS_validation"

// InitLoader points the binding at the platform Vulkan loader and
// resolves the global commands. Must run once before any other call
// in this package.
func InitLoader() error {
	if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
		return fmt.Errorf("vulkan loader: %w", err)
	}
	if err := vk.Init(); err != nil {
		return fmt.Errorf("vulkan init: %w", err)
	}
	return nil
}

// InstanceOptions configures Vulkan instance creation. Extensions must
// already be negotiated; nothing is added here except the debug report
// extension when Debug is set.
type InstanceOptions struct {
	AppName    string
	AppVersion uint32
	APIVersion uint32
	Extensions []string

	// Debug enables the validation layer and a debug report callback.
	// Both are dropped with a warning when the loader lacks them.
	Debug  bool
	Logger *slog.Logger
}

// Instance wraps the Vulkan instance and its optional debug callback.
type Instance struct {
	Instance vk.Instance

	debug vk.DebugReportCallback
	log   *slog.Logger
}

const debugReportExtension = "VK_EXT_debug_report"

// NewInstance creates the Vulkan instance. InitLoader must have run.
func NewInstance(opts *InstanceOptions) (*Instance, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(discardHandler{})
	}

	exts := opts.Extensions
	layers := []string(nil)
	debug := opts.Debug
	if debug {
		if instanceLayerSupported(validationLayer) {
			layers = []string{validationLayer}
		} else {
			log.Warn("validation layer not available; continuing without it")
		}
		exts = MergeExtensions(exts, []string{debugReportExtension})
	}

	var instance vk.Instance
	ret := vk.CreateInstance(&vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			PApplicationName:   safeString(opts.AppName),
			ApplicationVersion: opts.AppVersion,
			PEngineName:        safeString("parallax"),
			EngineVersion:      1,
			ApiVersion:         opts.APIVersion,
		},
		EnabledExtensionCount:   uint32(len(exts)),
		PpEnabledExtensionNames: safeStrings(exts),
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     safeStrings(layers),
	}, nil, &instance)
	if IsError(ret) {
		return nil, NewError(ret)
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, fmt.Errorf("init instance commands: %w", err)
	}

	in := &Instance{Instance: instance, log: log}
	if debug {
		if err := in.setupDebugCallback(); err != nil {
			log.Warn("debug callback unavailable", "err", err)
		}
	}
	return in, nil
}

func (in *Instance) setupDebugCallback() error {
	ret := vk.CreateDebugReportCallback(in.Instance, &vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit |
			vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit),
		PfnCallback: func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
			object uint64, location uint, messageCode int32,
			layerPrefix string, message string, userData unsafe.Pointer) vk.Bool32 {
			in.log.Warn("vulkan validation",
				"layer", layerPrefix, "code", messageCode, "message", message)
			return vk.False
		},
	}, nil, &in.debug)
	if IsError(ret) {
		return NewError(ret)
	}
	return nil
}

func instanceLayerSupported(layer string) bool {
	var count uint32
	if vk.EnumerateInstanceLayerProperties(&count, nil) != vk.Success {
		return false
	}
	props := make([]vk.LayerProperties, count)
	if vk.EnumerateInstanceLayerProperties(&count, props) != vk.Success {
		return false
	}
	for i := range props {
		props[i].Deref()
		if vk.ToString(props[i].LayerName[:]) == layer {
			return true
		}
	}
	return false
}

func (in *Instance) Destroy() {
	if in.Instance == nil {
		return
	}
	if in.debug != vk.NullDebugReportCallback {
		vk.DestroyDebugReportCallback(in.Instance, in.debug, nil)
		in.debug = vk.NullDebugReportCallback
	}
	vk.DestroyInstance(in.Instance, nil)
	in.Instance = nil
}
