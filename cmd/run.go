package cmd

import (
	"fmt"
	"math"
	"os"
	"sort"
	"time"

	"github.com/golang/glog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/notargets/dgamr/InputParameters"
	"github.com/notargets/dgamr/dgmesh"
	"github.com/notargets/dgamr/dgtree"
	"github.com/notargets/dgamr/element"
	"github.com/notargets/dgamr/readfiles"
	"github.com/notargets/dgamr/types"
)

type RunSummary struct {
	Roots, Size, LeafSize int
	Refined, Elevated     int
	Boundary              map[string]int // Root faces per boundary tag
	Volume                float64
	PartVolume            []float64 // Leaf volume summed per root partition
	Elapsed               time.Duration
}

// RunCmd represents the run command
var RunCmd = &cobra.Command{
	Use:   "run",
	Short: "Build, refine and elevate a mesh described by an input file",
	Long: `
Builds the root mesh described in the input file, refines it level by level,
elevates the polynomial order of selected cells and reports the resulting forest.

dgamr run -I input.yaml`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			ipFile string
			ip     *InputParameters.InputParameters
			m      *dgmesh.Mesh
			rs     RunSummary
		)
		if ipFile, err = cmd.Flags().GetString("inputConditionsFile"); err != nil {
			return
		}
		if len(ipFile) == 0 {
			fmt.Printf("Example File:%s\n", InputParameters.ExampleFile)
			return fmt.Errorf("must supply an input parameters file (-I, --inputConditionsFile)")
		}
		if ip, err = readInput(ipFile); err != nil {
			exitOnFatal(err)
			return
		}
		if np := viper.GetInt("parallel"); np > 0 {
			ip.Parallel = np
		}
		ip.Print()
		if m, rs, err = RunModel(ip); err != nil {
			exitOnFatal(err)
			return
		}
		if traversal, _ := cmd.Flags().GetBool("traversal"); traversal {
			printTraversal(m)
		}
		rs.Print()
		return
	},
}

func init() {
	rootCmd.AddCommand(RunCmd)
	RunCmd.Flags().StringP("inputConditionsFile", "I", "", "YAML file for input parameters like:\n\t- CellShape\n\t- PolynomialOrder\n\t- Mesh, Refine, Elevate")
	RunCmd.Flags().BoolP("traversal", "t", false, "print the pre-order and leaf traversal of the forest")
}

func readInput(fileName string) (ip *InputParameters.InputParameters, err error) {
	var data []byte
	if data, err = os.ReadFile(fileName); err != nil {
		return
	}
	ip = &InputParameters.InputParameters{}
	if err = ip.Parse(data); err != nil {
		return nil, fmt.Errorf("%s: %w", fileName, err)
	}
	ip.SetDefaults()
	if err = ip.Validate(); err != nil {
		return nil, err
	}
	return
}

// exitOnFatal terminates the process on configuration-class errors
func exitOnFatal(err error) {
	if types.IsFatal(err) {
		stopProfile()
		glog.Exitf("fatal: %v", err)
	}
}

// RunModel executes the run described by a validated input
func RunModel(ip *InputParameters.InputParameters) (m *dgmesh.Mesh, rs RunSummary, err error) {
	var (
		shape types.CellShape
		reg   = element.NewRegistry()
		start = time.Now()
	)
	if shape, err = ip.Shape(); err != nil {
		return
	}
	switch {
	case ip.Mesh.File != "":
		if m, err = gridMesh(ip.Mesh.File, shape, ip.PolynomialOrder, reg); err != nil {
			return
		}
		rs.Boundary = make(map[string]int, len(m.Boundary))
		for tag, faces := range m.Boundary {
			rs.Boundary[tag] = len(faces)
		}
	case shape == types.Line:
		m, err = dgmesh.NewLineMesh(ip.Mesh.XMin, ip.Mesh.XMax, ip.Mesh.Kx, ip.PolynomialOrder, reg)
	case shape == types.Tri:
		m, err = dgmesh.NewTriMesh(ip.Mesh.XMin, ip.Mesh.XMax, ip.Mesh.YMin, ip.Mesh.YMax,
			ip.Mesh.Kx, ip.Mesh.Ky, ip.PolynomialOrder, reg)
	}
	if err != nil {
		return
	}
	glog.Infof("built %d %v roots at order %d", m.Tree.NRoots(), shape, ip.PolynomialOrder)
	for level := 0; level < ip.Refine.Levels; level++ {
		var n int
		if n, err = m.RefineWhere(refinePolicy(m, ip.Refine)); err != nil {
			return
		}
		glog.Infof("refinement level %d: %d leaves refined, %d leaves total", level+1, n, m.Tree.LeafSize())
		rs.Refined += n
	}
	if ip.Elevate.Order != 0 {
		var leaves []dgtree.Handle
		if leaves, err = m.Tree.LeafHandles(ip.Elevate.Roots...); err != nil {
			return
		}
		for _, h := range leaves {
			if err = m.Elevate(h, ip.Elevate.Order); err != nil {
				return
			}
		}
		rs.Elevated = len(leaves)
		glog.Infof("elevated %d leaves to order %d", len(leaves), ip.Elevate.Order)
	}
	if rs.Volume, err = m.Volume(); err != nil {
		return
	}
	var (
		nParts  = len(m.Partitions(ip.Parallel))
		partErr = make([]error, nParts)
	)
	rs.PartVolume = make([]float64, nParts)
	err = m.ParallelLeafSweep(ip.Parallel, func(part int, h dgtree.Handle, c *dgmesh.Cell) {
		if partErr[part] != nil {
			return
		}
		vol, cerr := c.Volume()
		if cerr != nil {
			partErr[part] = fmt.Errorf("leaf %d: %w", h, cerr)
			return
		}
		rs.PartVolume[part] += vol
	})
	if err != nil {
		return
	}
	for _, err = range partErr {
		if err != nil {
			return
		}
	}
	rs.Roots, rs.Size, rs.LeafSize = m.Tree.NRoots(), m.Tree.Size(), m.Tree.LeafSize()
	rs.Elapsed = time.Since(start)
	return
}

func gridMesh(fileName string, shape types.CellShape, order int, reg *element.Registry) (m *dgmesh.Mesh, err error) {
	var g *readfiles.Grid
	if g, err = readfiles.ReadSU2File(fileName); err != nil {
		return
	}
	if g.Shape != shape {
		err = fmt.Errorf("%w: %s holds %v cells, input asks for %v",
			types.ErrInvalidArgument, fileName, g.Shape, shape)
		return
	}
	if m, err = dgmesh.NewMesh(g.Shape, order, g.VX, g.EToV, reg); err != nil {
		return
	}
	if _, err = m.TagBoundary(g.Markers); err != nil {
		return
	}
	if untagged := m.Untagged(); len(untagged) != 0 {
		glog.Warningf("%s: %d boundary faces carry no marker", fileName, len(untagged))
	}
	return
}

// refinePolicy selects the leaves refined in one level: every leaf under the
// listed roots, or else the leading fraction of the leaves in traversal order
func refinePolicy(m *dgmesh.Mesh, rp InputParameters.RefineParameters) func(h dgtree.Handle, c *dgmesh.Cell) bool {
	if len(rp.Roots) != 0 {
		roots := make(map[int]bool, len(rp.Roots))
		for _, k := range rp.Roots {
			roots[k] = true
		}
		return func(h dgtree.Handle, c *dgmesh.Cell) bool {
			return roots[m.Tree.Root(h)]
		}
	}
	var (
		limit = int(math.Ceil(rp.Fraction * float64(m.Tree.LeafSize())))
		count int
	)
	return func(h dgtree.Handle, c *dgmesh.Cell) bool {
		count++
		return count <= limit
	}
}

func (rs RunSummary) Print() {
	fmt.Printf("[%d]\t\t\t\t= Roots\n", rs.Roots)
	fmt.Printf("[%d]\t\t\t\t= Size\n", rs.Size)
	fmt.Printf("[%d]\t\t\t\t= Leaf Size\n", rs.LeafSize)
	fmt.Printf("[%d]\t\t\t\t= Refined\n", rs.Refined)
	fmt.Printf("[%d]\t\t\t\t= Elevated\n", rs.Elevated)
	tags := make([]string, 0, len(rs.Boundary))
	for tag := range rs.Boundary {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		fmt.Printf("Boundary[%s] = %d faces\n", tag, rs.Boundary[tag])
	}
	fmt.Printf("%12.8f\t\t= Volume\n", rs.Volume)
	fmt.Printf("%v\t= Partition Volume\n", rs.PartVolume)
	fmt.Printf("%v\t\t= Elapsed\n", rs.Elapsed)
}

func printTraversal(m *dgmesh.Mesh) {
	all, err := m.Tree.All()
	if err != nil {
		return
	}
	fmt.Printf("Pre-order: ")
	for h := range all {
		fmt.Printf("%d(L%d) ", h, m.Tree.Level(h))
	}
	fmt.Printf("\nLeaves: ")
	leaves, _ := m.Tree.Leaves()
	for h := range leaves {
		fmt.Printf("%d ", h)
	}
	fmt.Printf("\n")
}
