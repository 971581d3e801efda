package frame

import (
	"cmp"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
)

// ComputeOrder sorts the registry far to near from the camera. Each item's Distance is
// recomputed and cached on the item; the items themselves are not reordered.
//
// Parameters:
//   - items: the registry; Distance is written on every item
//   - cameraPos: the camera position
//
// Returns:
//   - []int: registry indices, farthest first; equal distances keep registry order
func ComputeOrder(items []DrawItem, cameraPos mgl32.Vec3) []int {
	order := make([]int, len(items))
	for i := range items {
		items[i].Distance = cameraPos.Sub(items[i].Position).Len()
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(items[b].Distance, items[a].Distance)
	})
	return order
}
