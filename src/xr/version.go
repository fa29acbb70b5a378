package xr

import "fmt"

// Version packs major.minor.patch the way the runtime reports graphics
// API requirements: 16 bits major, 16 bits minor, 32 bits patch.
// Packed versions compare correctly with <.
type Version uint64

func MakeVersion(major, minor, patch uint32) Version {
	return Version(uint64(major&0xffff)<<48 | uint64(minor&0xffff)<<32 | uint64(patch))
}

func (v Version) Major() uint32 { return uint32(v>>48) & 0xffff }
func (v Version) Minor() uint32 { return uint32(v>>32) & 0xffff }
func (v Version) Patch() uint32 { return uint32(v) }

func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d", v.Major(), v.Minor(), v.Patch())
}
