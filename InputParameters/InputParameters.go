package InputParameters

import (
	"fmt"

	"github.com/ghodss/yaml"

	"github.com/notargets/dgamr/element"
	"github.com/notargets/dgamr/types"
)

type MeshParameters struct {
	File string  `yaml:"File"` // SU2 grid, replaces the structured mesh
	XMin float64 `yaml:"XMin"`
	XMax float64 `yaml:"XMax"`
	YMin float64 `yaml:"YMin"`
	YMax float64 `yaml:"YMax"`
	Kx   int     `yaml:"Kx"`
	Ky   int     `yaml:"Ky"`
}

type RefineParameters struct {
	Levels   int     `yaml:"Levels"`
	Roots    []int   `yaml:"Roots"`    // Empty means use Fraction
	Fraction float64 `yaml:"Fraction"` // Share of current leaves refined per level
}

type ElevateParameters struct {
	Order int   `yaml:"Order"` // Zero disables p-refinement
	Roots []int `yaml:"Roots"` // Empty means every root
}

type InputParameters struct {
	Title           string            `yaml:"Title"`
	CellShape       string            `yaml:"CellShape"`
	PolynomialOrder int               `yaml:"PolynomialOrder"`
	Mesh            MeshParameters    `yaml:"Mesh"`
	Refine          RefineParameters  `yaml:"Refine"`
	Elevate         ElevateParameters `yaml:"Elevate"`
	Parallel        int               `yaml:"Parallel"`
}

const ExampleFile = `
########################################
Title: "Refined channel"
CellShape: tri # or line
PolynomialOrder: 2
Mesh:
  XMin: 0
  XMax: 2
  YMin: 0
  YMax: 1
  Kx: 4
  Ky: 2
Refine:
  Levels: 2
  Roots: [0, 1]
Elevate:
  Order: 4
  Roots: [5]
Parallel: 4
########################################
`

func (ip *InputParameters) Parse(data []byte) error {
	return yaml.Unmarshal(data, ip)
}

func (ip *InputParameters) SetDefaults() {
	if ip.CellShape == "" {
		ip.CellShape = "line"
	}
	if ip.PolynomialOrder == 0 {
		ip.PolynomialOrder = 1
	}
	if ip.Mesh.XMax == ip.Mesh.XMin {
		ip.Mesh.XMin, ip.Mesh.XMax = 0, 1
	}
	if ip.Mesh.YMax == ip.Mesh.YMin {
		ip.Mesh.YMin, ip.Mesh.YMax = 0, 1
	}
	if ip.Mesh.Kx == 0 {
		ip.Mesh.Kx = 4
	}
	if ip.Mesh.Ky == 0 {
		ip.Mesh.Ky = 1
	}
	if len(ip.Refine.Roots) == 0 && ip.Refine.Fraction == 0 {
		ip.Refine.Fraction = 1
	}
	if ip.Parallel == 0 {
		ip.Parallel = 1
	}
}

// Shape returns the parsed cell shape
func (ip *InputParameters) Shape() (types.CellShape, error) {
	return types.ParseCellShape(ip.CellShape)
}

func (ip *InputParameters) Validate() (err error) {
	if _, err = ip.Shape(); err != nil {
		return
	}
	if err = element.CheckOrder("PolynomialOrder", ip.PolynomialOrder); err != nil {
		return
	}
	if ip.Elevate.Order != 0 {
		if err = element.CheckOrder("Elevate.Order", ip.Elevate.Order); err != nil {
			return
		}
	}
	switch {
	case ip.Mesh.XMax < ip.Mesh.XMin || ip.Mesh.YMax < ip.Mesh.YMin:
		err = fmt.Errorf("%w: inverted mesh bounds", types.ErrInvalidArgument)
	case ip.Mesh.Kx < 1 || ip.Mesh.Ky < 1:
		err = fmt.Errorf("%w: mesh needs at least one cell per direction, have Kx=%d, Ky=%d",
			types.ErrInvalidArgument, ip.Mesh.Kx, ip.Mesh.Ky)
	case ip.Refine.Levels < 0:
		err = fmt.Errorf("%w: negative refinement levels %d", types.ErrInvalidArgument, ip.Refine.Levels)
	case ip.Refine.Fraction < 0 || ip.Refine.Fraction > 1:
		err = fmt.Errorf("%w: refine fraction %g outside [0,1]", types.ErrInvalidArgument, ip.Refine.Fraction)
	case ip.Parallel < 1:
		err = fmt.Errorf("%w: parallel degree %d", types.ErrInvalidArgument, ip.Parallel)
	}
	return
}

func (ip *InputParameters) Print() {
	fmt.Printf("\"%s\"\t\t= Title\n", ip.Title)
	fmt.Printf("[%s]\t\t\t= Cell Shape\n", ip.CellShape)
	fmt.Printf("[%d]\t\t\t\t= Polynomial Order\n", ip.PolynomialOrder)
	if ip.Mesh.File != "" {
		fmt.Printf("[%s]\t\t= Grid File\n", ip.Mesh.File)
	}
	fmt.Printf("[%8.5f,%8.5f]\t= X Range\n", ip.Mesh.XMin, ip.Mesh.XMax)
	fmt.Printf("[%8.5f,%8.5f]\t= Y Range\n", ip.Mesh.YMin, ip.Mesh.YMax)
	fmt.Printf("[%d x %d]\t\t\t= Root Cells\n", ip.Mesh.Kx, ip.Mesh.Ky)
	fmt.Printf("[%d]\t\t\t\t= Refine Levels\n", ip.Refine.Levels)
	if len(ip.Refine.Roots) != 0 {
		fmt.Printf("%v\t\t\t= Refine Roots\n", ip.Refine.Roots)
	} else {
		fmt.Printf("%8.5f\t\t= Refine Fraction\n", ip.Refine.Fraction)
	}
	if ip.Elevate.Order != 0 {
		fmt.Printf("[%d]\t\t\t\t= Elevate Order\n", ip.Elevate.Order)
		fmt.Printf("%v\t\t\t= Elevate Roots\n", ip.Elevate.Roots)
	}
	fmt.Printf("[%d]\t\t\t\t= Parallel\n", ip.Parallel)
}
