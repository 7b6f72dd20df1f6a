package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gonum.org/v1/gonum/mat"

	"github.com/notargets/dgamr/element"
	"github.com/notargets/dgamr/types"
)

// ElementCmd represents the element command
var ElementCmd = &cobra.Command{
	Use:   "element",
	Short: "Print the reference operators of a standard element",
	Long: `
Prints the dof counts and the mass, derivative and lift matrices of the
standard element of polynomial order N on the given cell shape.

dgamr element -n 2 -s tri`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		var (
			N     int
			name  string
			shape types.CellShape
			se    *element.StdElement
		)
		N, _ = cmd.Flags().GetInt("n")
		name, _ = cmd.Flags().GetString("shape")
		if shape, err = types.ParseCellShape(name); err != nil {
			return
		}
		if se, err = element.NewStdElement(N, shape); err != nil {
			exitOnFatal(err)
			return
		}
		PrintStdElement(se)
		return
	},
}

func init() {
	rootCmd.AddCommand(ElementCmd)
	ElementCmd.Flags().IntP("n", "n", 1, "polynomial order of the element")
	ElementCmd.Flags().StringP("shape", "s", "line", "cell shape: line or tri")
}

func PrintStdElement(se *element.StdElement) {
	fmt.Printf("%v\n", se)
	fmt.Printf("[%d]\t\t\t\t= Order\n", se.NOrder())
	fmt.Printf("[%d]\t\t\t\t= Dof Per Cell\n", se.NDofPerCell())
	fmt.Printf("[%d]\t\t\t\t= Faces Per Cell\n", se.NFacesPerCell())
	fmt.Printf("[%d]\t\t\t\t= Dof Per Face\n", se.NDofPerFace())
	fmt.Printf("[%d]\t\t\t\t= Gauss Points Per Cell\n", se.GaussNDofPerCell())
	fmt.Printf("[%d]\t\t\t\t= Gauss Points Per Face\n", se.GaussNDofPerFace())
	fmt.Printf("Mass = \n%v\n", mat.Formatted(se.MassMatrix(), mat.Squeeze()))
	for i, Dr := range se.DrMatrix() {
		fmt.Printf("Dr[%d] = \n%v\n", i, mat.Formatted(Dr, mat.Squeeze()))
	}
	fmt.Printf("Lift = \n%v\n", mat.Formatted(se.Lift(), mat.Squeeze()))
}
