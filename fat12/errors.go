// Package fat12 walks a FAT12 filesystem layered over a flat disk image:
// boot-parameter-block offsets, the 12-bit packed FAT, cluster chains,
// directory entries (including VFAT long names), and deleted-file recovery.
package fat12

import "github.com/pkg/errors"

// ErrNotFatFilesystem is returned when a FAT12 operation is requested on an
// image whose detected filesystem is not FAT.
var ErrNotFatFilesystem = errors.New("fat12: image is not a FAT filesystem")

// ErrInvalidCluster is returned when a recover/read request names a cluster
// outside [2, totalClusters).
var ErrInvalidCluster = errors.New("fat12: cluster out of range")
