package bsp

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/Jacobs-University/eyden-tracer-03/log"
	"github.com/Jacobs-University/eyden-tracer-03/types"
)

// SplitPolicy selects the coordinate at which a node region is split.
type SplitPolicy uint8

const (
	// Split at the middle of the node region along the split axis.
	SplitMidpoint SplitPolicy = iota

	// Split at the median of the primitive bbox centers along the split
	// axis. Produces better balanced trees for clustered geometry.
	SplitMedian
)

const (
	DefaultMaxDepth      = 20
	DefaultMinPrimitives = 3
)

func (p SplitPolicy) String() string {
	switch p {
	case SplitMidpoint:
		return "midpoint"
	case SplitMedian:
		return "median"
	}
	return fmt.Sprintf("SplitPolicy(%d)", uint8(p))
}

// Parse a split policy name.
func ParseSplitPolicy(name string) (SplitPolicy, error) {
	switch strings.ToLower(name) {
	case "midpoint", "middle", "":
		return SplitMidpoint, nil
	case "median":
		return SplitMedian, nil
	}
	return SplitMidpoint, fmt.Errorf("%w: %q", ErrInvalidSplitPolicy, name)
}

// BuildOptions control the shape of the generated tree.
type BuildOptions struct {
	// Hard limit for the tree depth. Nodes at this depth always become leafs.
	MaxDepth int

	// Nodes with this many primitives or less become leafs.
	MinPrimitives int

	// The split coordinate selection policy.
	SplitPolicy SplitPolicy
}

// Get the default build options (depth 20, 3 primitives per leaf, midpoint splits).
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{
		MaxDepth:      DefaultMaxDepth,
		MinPrimitives: DefaultMinPrimitives,
		SplitPolicy:   SplitMidpoint,
	}
}

// Validate the build options.
func (o BuildOptions) Validate() error {
	if o.MaxDepth < 0 {
		return ErrInvalidMaxDepth
	}
	if o.MinPrimitives < 1 {
		return ErrInvalidMinPrimitives
	}
	if o.SplitPolicy != SplitMidpoint && o.SplitPolicy != SplitMedian {
		return ErrInvalidSplitPolicy
	}
	return nil
}

// Stats collected while building a tree.
type Stats struct {
	// Number of primitives passed to Build.
	TotalItems int

	// Number of primitive references stored in leafs. Primitives that
	// straddle split planes are counted once per leaf.
	PartitionedItems int

	Branches   int
	Leafs      int
	EmptyLeafs int

	// The deepest level reached.
	MaxDepth int

	// Number of splits that sent every primitive of a node to both
	// children. These splits only add references and usually point to
	// overlapping or duplicate primitives.
	DegenerateSplits int

	BuildTime time.Duration
}

// Tree is a binary space partitioning tree with axis-aligned split planes.
// A tree is immutable once built and can be queried concurrently.
type Tree struct {
	bbox  BBox
	opts  BuildOptions
	root  Node
	stats Stats
}

type builder struct {
	logger log.Logger
	opts   BuildOptions
	stats  Stats
}

// Build a tree for the given primitives. The primitives must outlive the
// tree.
func Build(primitives []Primitive, opts BuildOptions) (*Tree, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	b := &builder{
		logger: log.New("bsp"),
		opts:   opts,
		stats: Stats{
			TotalItems: len(primitives),
		},
	}

	start := time.Now()
	bbox := EmptyBBox()
	for _, prim := range primitives {
		bbox.ExtendBox(prim.BBox())
	}

	list := make([]Primitive, len(primitives))
	copy(list, primitives)
	root := b.partition(bbox, list, 0)

	b.stats.BuildTime = time.Since(start)
	b.logger.Debugf(
		"BSP tree build time: %d ms, scene bounds: %v, maxDepth: %d, branches: %d, leafs: %d, refs: %d\n",
		b.stats.BuildTime.Nanoseconds()/1e6, bbox,
		b.stats.MaxDepth, b.stats.Branches, b.stats.Leafs, b.stats.PartitionedItems,
	)
	if b.stats.DegenerateSplits > 0 {
		b.logger.Warningf(
			"%d of %d splits could not separate any primitives; the scene may contain overlapping or duplicate shapes (refs: %d for %d primitives)",
			b.stats.DegenerateSplits, b.stats.Branches, b.stats.PartitionedItems, b.stats.TotalItems,
		)
	}

	return &Tree{
		bbox:  bbox,
		opts:  opts,
		root:  root,
		stats: b.stats,
	}, nil
}

// Partition the primitives overlapping box and return the subtree root.
func (b *builder) partition(box BBox, workList []Primitive, depth int) Node {
	if depth > b.stats.MaxDepth {
		b.stats.MaxDepth = depth
	}

	if depth >= b.opts.MaxDepth || len(workList) <= b.opts.MinPrimitives {
		return b.createLeaf(workList)
	}

	axis, splitVal, ok := b.selectSplit(box, workList)
	if !ok {
		return b.createLeaf(workList)
	}

	leftBox, rightBox := box.Split(axis, splitVal)
	leftWorkList := make([]Primitive, 0, len(workList))
	rightWorkList := make([]Primitive, 0, len(workList))
	for _, prim := range workList {
		primBox := prim.BBox()
		if primBox.Overlaps(leftBox) {
			leftWorkList = append(leftWorkList, prim)
		}
		if primBox.Overlaps(rightBox) {
			rightWorkList = append(rightWorkList, prim)
		}
	}

	b.stats.Branches++
	if len(leftWorkList) == len(workList) && len(rightWorkList) == len(workList) {
		b.stats.DegenerateSplits++
	}
	left := b.partition(leftBox, leftWorkList, depth+1)
	right := b.partition(rightBox, rightWorkList, depth+1)
	return newBranch(axis, splitVal, left, right)
}

// Pick the widest axis of the node region and a split coordinate on it.
// Infinite region bounds (e.g. from unbounded planes) are replaced by the
// finite bounds of the node primitives. Returns false if the region has no
// finite extent along any axis.
func (b *builder) selectSplit(box BBox, workList []Primitive) (types.Axis, float32, bool) {
	finite := EmptyBBox()
	for _, prim := range workList {
		primBox := prim.BBox()
		for axis := 0; axis < 3; axis++ {
			for _, v := range [2]float32{primBox.Min[axis], primBox.Max[axis]} {
				if isFinite(v) {
					finite.Min[axis] = float32(math.Min(float64(finite.Min[axis]), float64(v)))
					finite.Max[axis] = float32(math.Max(float64(finite.Max[axis]), float64(v)))
				}
			}
		}
	}

	// Axes without a finite extent are collapsed to an empty range so they
	// are never selected while another axis is usable.
	region := box
	for axis := 0; axis < 3; axis++ {
		if !isFinite(region.Min[axis]) {
			region.Min[axis] = finite.Min[axis]
		}
		if !isFinite(region.Max[axis]) {
			region.Max[axis] = finite.Max[axis]
		}
		if !isFinite(region.Min[axis]) || !isFinite(region.Max[axis]) || region.Min[axis] > region.Max[axis] {
			region.Min[axis], region.Max[axis] = posInf, negInf
		}
	}

	axis := region.WidestAxis()
	lo, hi := region.Min[axis], region.Max[axis]
	if lo > hi {
		return 0, 0, false
	}

	splitVal := lo + (hi-lo)*0.5
	if b.opts.SplitPolicy == SplitMedian {
		if median, ok := medianCenter(workList, axis); ok {
			splitVal = float32(math.Max(float64(lo), math.Min(float64(hi), float64(median))))
		}
	}

	return axis, splitVal, true
}

// Setup a leaf containing all items in the work list.
func (b *builder) createLeaf(workList []Primitive) Node {
	b.stats.Leafs++
	b.stats.PartitionedItems += len(workList)
	if len(workList) == 0 {
		b.stats.EmptyLeafs++
	}
	return newLeaf(workList)
}

// Get the median of the finite primitive bbox centers along axis.
func medianCenter(workList []Primitive, axis types.Axis) (float32, bool) {
	centers := make([]float32, 0, len(workList))
	for _, prim := range workList {
		primBox := prim.BBox()
		if c := primBox.Center()[axis]; isFinite(c) {
			centers = append(centers, c)
		}
	}
	if len(centers) == 0 {
		return 0, false
	}

	sort.Slice(centers, func(i, j int) bool { return centers[i] < centers[j] })
	return centers[len(centers)/2], true
}

func isFinite(v float32) bool {
	return !math.IsInf(float64(v), 0) && !math.IsNaN(float64(v))
}

// Intersect ray with the tree contents. Returns true if a primitive closer
// than ray.T was hit; ray.T and ray.Hit are updated with the closest hit.
func (t *Tree) Intersect(ray *Ray) bool {
	t0, t1 := t.bbox.Clip(ray, 0, ray.T)
	if t0 > t1 {
		return false
	}

	return t.root.intersect(ray, t0, t1)
}

// Get the bounding box of all tree primitives.
func (t *Tree) BBox() BBox {
	return t.bbox
}

// Get the root node.
func (t *Tree) Root() Node {
	return t.root
}

// Get the options used for building the tree.
func (t *Tree) Options() BuildOptions {
	return t.opts
}

// Get the build statistics.
func (t *Tree) Stats() Stats {
	return t.stats
}
