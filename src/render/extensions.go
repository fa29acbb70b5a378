package render

import (
	"fmt"

	vk "github.com/vulkan-go/vulkan"
)

// MissingExtensionError names the first required extension absent from
// an advertised set.
type MissingExtensionError struct {
	Name string
}

func (e *MissingExtensionError) Error() string {
	return fmt.Sprintf("required extension %s not available", e.Name)
}

// RequireExtensions checks every member of required against available
// and returns required verbatim. The first unmet member fails the
// whole negotiation; there is no partial result.
func RequireExtensions(required, available []string) ([]string, error) {
	have := make(map[string]bool, len(available))
	for _, ext := range available {
		have[cleanString(ext)] = true
	}
	for _, ext := range required {
		if !have[cleanString(ext)] {
			return nil, &MissingExtensionError{Name: cleanString(ext)}
		}
	}
	return required, nil
}

// FilterExtensions intersects a runtime-requested extension set with
// what the implementation really exposes, preserving request order.
// Some runtimes ask for extensions the device does not have; trusting
// that list crashes device creation, so unavailable entries are
// dropped without error.
func FilterExtensions(requested, available []string) []string {
	have := make(map[string]bool, len(available))
	for _, ext := range available {
		have[cleanString(ext)] = true
	}
	filtered := make([]string, 0, len(requested))
	for _, ext := range requested {
		if have[cleanString(ext)] {
			filtered = append(filtered, ext)
		}
	}
	return filtered
}

// MergeExtensions concatenates the given sets into one deduplicated
// list, keeping first-set-first order.
func MergeExtensions(sets ...[]string) []string {
	var total int
	for _, set := range sets {
		total += len(set)
	}
	seen := make(map[string]bool, total)
	merged := make([]string, 0, total)
	for _, set := range sets {
		for _, ext := range set {
			key := cleanString(ext)
			if seen[key] {
				continue
			}
			seen[key] = true
			merged = append(merged, ext)
		}
	}
	return merged
}

// InstanceExtensions reports the instance-level extensions the Vulkan
// implementation supports.
func InstanceExtensions() ([]string, error) {
	var count uint32
	ret := vk.EnumerateInstanceExtensionProperties("", &count, nil)
	if IsError(ret) {
		return nil, NewError(ret)
	}
	props := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateInstanceExtensionProperties("", &count, props)
	if IsError(ret) {
		return nil, NewError(ret)
	}
	return extensionNames(props), nil
}

// DeviceExtensions reports the extensions a physical device really
// exposes. This is the set runtime-requested device extensions are
// filtered against.
func DeviceExtensions(gpu vk.PhysicalDevice) ([]string, error) {
	var count uint32
	ret := vk.EnumerateDeviceExtensionProperties(gpu, "", &count, nil)
	if IsError(ret) {
		return nil, NewError(ret)
	}
	props := make([]vk.ExtensionProperties, count)
	ret = vk.EnumerateDeviceExtensionProperties(gpu, "", &count, props)
	if IsError(ret) {
		return nil, NewError(ret)
	}
	return extensionNames(props), nil
}

func extensionNames(props []vk.ExtensionProperties) []string {
	names := make([]string, 0, len(props))
	for i := range props {
		props[i].Deref()
		names = append(names, vk.ToString(props[i].ExtensionName[:]))
	}
	return names
}
