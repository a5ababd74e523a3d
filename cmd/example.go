/*
Copyright © 2020 NAME HERE <EMAIL ADDRESS>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/meshforge/gomesh/geometry2D"
	"github.com/meshforge/gomesh/mesher"
)

// exampleCmd meshes a small rectangle with area and angle constraints
var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Mesh a 4x3 rectangle with area and angle constraints",
	Run: func(cmd *cobra.Command, args []string) {
		geometry := geometry2D.Geometry{
			Points: []geometry2D.Point{
				{X: 0, Y: 0},
				{X: 4, Y: 0},
				{X: 4, Y: 3},
				{X: 0, Y: 3},
			},
			Name: "rectangle",
		}
		request := mesher.NewMeshRequestWithConstraints(geometry, 0.5, 25)
		m, err := mesher.GenerateMesh(request)
		if err != nil {
			fmt.Printf("error generating mesh: %s\n", err.Error())
			os.Exit(1)
		}
		fmt.Printf("Generated mesh with %d vertices and %d triangles\n",
			len(m.Vertices), len(m.TriangleIndices))
		for i, v := range m.Vertices {
			fmt.Printf("vertex %4d: (%8.4f, %8.4f)\n", i, v.X, v.Y)
		}
		for i, tri := range m.TriangleIndices {
			fmt.Printf("triangle %4d: [%d, %d, %d]\n", i, tri[0], tri[1], tri[2])
		}
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)
}
