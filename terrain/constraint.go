package terrain

import (
	"fmt"
	"sort"

	"github.com/milk9111/terrains/grid"
)

// PointKey names one physical peering point of the map. Every cell touching
// the point names it with the same key: the owning cell and the index of
// the point among the points that cell owns.
type PointKey struct {
	Base  grid.Coords
	Point uint8
}

func (k PointKey) Less(o PointKey) bool {
	if k.Base == o.Base {
		return k.Point < o.Point
	}
	return k.Base.Less(o.Base)
}

func (k PointKey) String() string {
	return fmt.Sprintf("%v#%d", k.Base, k.Point)
}

// Constraint requires a terrain at a peering point. Two constraints are the
// same point when their keys are equal, whatever their terrains.
type Constraint struct {
	Key     PointKey
	Terrain int
}

// stay marks a hop that remains on the starting cell.
const stay = grid.NeighborCount

type hop grid.Neighbor

func (h hop) from(shape grid.Shape, c grid.Coords) grid.Coords {
	if grid.Neighbor(h) == stay {
		return c
	}
	return shape.NeighborCell(c, grid.Neighbor(h))
}

type owner struct {
	via   hop
	point uint8
}

type contributor struct {
	via hop
	bit grid.Neighbor
}

type pointTables struct {
	// owners maps a peering bit to the cell owning that point.
	owners map[grid.Neighbor]owner
	// contributors lists, per owned point, every cell and bit touching it.
	contributors [][]contributor
}

var tables = [...]pointTables{
	grid.ShapeSquare: {
		owners: map[grid.Neighbor]owner{
			grid.RightSide:         {hop(stay), 0},
			grid.BottomRightCorner: {hop(stay), 1},
			grid.BottomSide:        {hop(stay), 2},
			grid.BottomLeftCorner:  {hop(grid.LeftSide), 1},
			grid.LeftSide:          {hop(grid.LeftSide), 0},
			grid.TopLeftCorner:     {hop(grid.TopLeftCorner), 1},
			grid.TopSide:           {hop(grid.TopSide), 2},
			grid.TopRightCorner:    {hop(grid.TopSide), 1},
		},
		contributors: [][]contributor{
			{{hop(stay), grid.RightSide}, {hop(grid.RightSide), grid.LeftSide}},
			{
				{hop(stay), grid.BottomRightCorner},
				{hop(grid.RightSide), grid.BottomLeftCorner},
				{hop(grid.BottomRightCorner), grid.TopLeftCorner},
				{hop(grid.BottomSide), grid.TopRightCorner},
			},
			{{hop(stay), grid.BottomSide}, {hop(grid.BottomSide), grid.TopSide}},
		},
	},
	grid.ShapeIsometric: {
		owners: map[grid.Neighbor]owner{
			grid.BottomRightSide: {hop(stay), 0},
			grid.BottomCorner:    {hop(stay), 1},
			grid.BottomLeftSide:  {hop(stay), 2},
			grid.RightCorner:     {hop(grid.TopRightSide), 1},
			grid.LeftCorner:      {hop(grid.TopLeftSide), 1},
			grid.TopLeftSide:     {hop(grid.TopLeftSide), 0},
			grid.TopCorner:       {hop(grid.TopCorner), 1},
			grid.TopRightSide:    {hop(grid.TopRightSide), 2},
		},
		contributors: [][]contributor{
			{{hop(stay), grid.BottomRightSide}, {hop(grid.BottomRightSide), grid.TopLeftSide}},
			{
				{hop(stay), grid.BottomCorner},
				{hop(grid.BottomLeftSide), grid.RightCorner},
				{hop(grid.BottomRightSide), grid.LeftCorner},
				{hop(grid.BottomCorner), grid.TopCorner},
			},
			{{hop(stay), grid.BottomLeftSide}, {hop(grid.BottomLeftSide), grid.TopRightSide}},
		},
	},
	grid.ShapeHalfOffsetHorizontal: {
		owners: map[grid.Neighbor]owner{
			grid.RightSide:         {hop(stay), 0},
			grid.BottomRightCorner: {hop(stay), 1},
			grid.BottomRightSide:   {hop(stay), 2},
			grid.BottomCorner:      {hop(stay), 3},
			grid.BottomLeftSide:    {hop(stay), 4},
			grid.BottomLeftCorner:  {hop(grid.LeftSide), 1},
			grid.LeftSide:          {hop(grid.LeftSide), 0},
			grid.TopLeftCorner:     {hop(grid.TopLeftSide), 3},
			grid.TopLeftSide:       {hop(grid.TopLeftSide), 2},
			grid.TopCorner:         {hop(grid.TopLeftSide), 1},
			grid.TopRightSide:      {hop(grid.TopRightSide), 4},
			grid.TopRightCorner:    {hop(grid.TopRightSide), 3},
		},
		contributors: [][]contributor{
			{{hop(stay), grid.RightSide}, {hop(grid.RightSide), grid.LeftSide}},
			{
				{hop(stay), grid.BottomRightCorner},
				{hop(grid.RightSide), grid.BottomLeftCorner},
				{hop(grid.BottomRightSide), grid.TopCorner},
			},
			{{hop(stay), grid.BottomRightSide}, {hop(grid.BottomRightSide), grid.TopLeftSide}},
			{
				{hop(stay), grid.BottomCorner},
				{hop(grid.BottomRightSide), grid.TopLeftCorner},
				{hop(grid.BottomLeftSide), grid.TopRightCorner},
			},
			{{hop(stay), grid.BottomLeftSide}, {hop(grid.BottomLeftSide), grid.TopRightSide}},
		},
	},
	grid.ShapeHalfOffsetVertical: {
		owners: map[grid.Neighbor]owner{
			grid.RightCorner:       {hop(stay), 0},
			grid.BottomRightSide:   {hop(stay), 1},
			grid.BottomRightCorner: {hop(stay), 2},
			grid.BottomSide:        {hop(stay), 3},
			grid.BottomLeftSide:    {hop(stay), 4},
			grid.BottomLeftCorner:  {hop(grid.BottomLeftSide), 0},
			grid.LeftCorner:        {hop(grid.TopLeftSide), 2},
			grid.TopLeftSide:       {hop(grid.TopLeftSide), 1},
			grid.TopLeftCorner:     {hop(grid.TopLeftSide), 0},
			grid.TopSide:           {hop(grid.TopSide), 3},
			grid.TopRightCorner:    {hop(grid.TopSide), 2},
			grid.TopRightSide:      {hop(grid.TopRightSide), 4},
		},
		contributors: [][]contributor{
			{
				{hop(stay), grid.RightCorner},
				{hop(grid.TopRightSide), grid.BottomLeftCorner},
				{hop(grid.BottomRightSide), grid.TopLeftCorner},
			},
			{{hop(stay), grid.BottomRightSide}, {hop(grid.BottomRightSide), grid.TopLeftSide}},
			{
				{hop(stay), grid.BottomRightCorner},
				{hop(grid.BottomRightSide), grid.LeftCorner},
				{hop(grid.BottomSide), grid.TopRightCorner},
			},
			{{hop(stay), grid.BottomSide}, {hop(grid.BottomSide), grid.TopSide}},
			{{hop(stay), grid.BottomLeftSide}, {hop(grid.BottomLeftSide), grid.TopRightSide}},
		},
	},
}

// PointsPerCell is the number of peering points each cell owns.
func PointsPerCell(shape grid.Shape) int {
	if !shape.Valid() {
		return 0
	}
	return len(tables[shape].contributors)
}

// KeyOf returns the key of the point a cell's peering bit lies on. It panics
// if the bit is not a peering bit of the shape.
func KeyOf(shape grid.Shape, cell grid.Coords, bit grid.Neighbor) PointKey {
	if !shape.Valid() {
		panic(fmt.Sprintf("terrain: invalid shape %s", shape))
	}
	o, ok := tables[shape].owners[bit]
	if !ok {
		panic(fmt.Sprintf("terrain: %s is not a peering bit of %s tiles", bit, shape))
	}
	return PointKey{Base: o.via.from(shape, cell), Point: o.point}
}

func NewConstraint(shape grid.Shape, cell grid.Coords, bit grid.Neighbor, terrain int) Constraint {
	return Constraint{Key: KeyOf(shape, cell, bit), Terrain: terrain}
}

// Overlapping lists every cell and peering bit lying on the point, owner
// first.
func (k PointKey) Overlapping(shape grid.Shape) []grid.Peering {
	if !shape.Valid() || int(k.Point) >= PointsPerCell(shape) {
		panic(fmt.Sprintf("terrain: invalid point %v for %s tiles", k, shape))
	}
	contribs := tables[shape].contributors[k.Point]
	out := make([]grid.Peering, 0, len(contribs))
	for _, c := range contribs {
		out = append(out, grid.Peering{Cell: c.via.from(shape, k.Base), Bit: c.bit})
	}
	return out
}

func (c Constraint) Overlapping(shape grid.Shape) []grid.Peering {
	return c.Key.Overlapping(shape)
}

// ConstraintSet holds at most one terrain per point.
type ConstraintSet map[PointKey]int

// Add keeps an existing constraint on the same point.
func (s ConstraintSet) Add(c Constraint) {
	if _, ok := s[c.Key]; !ok {
		s[c.Key] = c.Terrain
	}
}

// Set replaces an existing constraint on the same point.
func (s ConstraintSet) Set(c Constraint) {
	s[c.Key] = c.Terrain
}

func (s ConstraintSet) Get(k PointKey) (int, bool) {
	t, ok := s[k]
	return t, ok
}

// Merge adds every constraint of o. With override, o wins on shared points.
func (s ConstraintSet) Merge(o ConstraintSet, override bool) {
	for k, t := range o {
		if override {
			s.Set(Constraint{Key: k, Terrain: t})
		} else {
			s.Add(Constraint{Key: k, Terrain: t})
		}
	}
}

// Conflicts lists, in key order, the points where s and o require
// different terrains.
func (s ConstraintSet) Conflicts(o ConstraintSet) []PointKey {
	var out []PointKey
	for k, t := range s {
		if ot, ok := o[k]; ok && ot != t {
			out = append(out, k)
		}
	}
	sortKeys(out)
	return out
}

func (s ConstraintSet) Sorted() []Constraint {
	keys := make([]PointKey, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sortKeys(keys)
	out := make([]Constraint, len(keys))
	for i, k := range keys {
		out[i] = Constraint{Key: k, Terrain: s[k]}
	}
	return out
}

func sortKeys(keys []PointKey) {
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
}
