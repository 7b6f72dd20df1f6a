package types

import (
	"fmt"
	"strings"
)

type CellShape uint8

const (
	Line CellShape = iota
	Tri
)

var CellShapeNameMap = map[string]CellShape{
	"line":     Line,
	"tri":      Tri,
	"triangle": Tri,
}

func ParseCellShape(name string) (cs CellShape, err error) {
	var ok bool
	if cs, ok = CellShapeNameMap[strings.ToLower(strings.TrimSpace(name))]; !ok {
		err = fmt.Errorf("%w: unknown cell shape %q", ErrInvalidArgument, name)
	}
	return
}

func (cs CellShape) String() string {
	switch cs {
	case Line:
		return "line"
	case Tri:
		return "tri"
	}
	return fmt.Sprintf("CellShape(%d)", uint8(cs))
}

func (cs CellShape) Dimension() int {
	switch cs {
	case Line:
		return 1
	case Tri:
		return 2
	}
	return 0
}

func (cs CellShape) NVertices() int {
	switch cs {
	case Line:
		return 2
	case Tri:
		return 3
	}
	return 0
}
