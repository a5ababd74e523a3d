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
	"encoding/json"
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/meshforge/gomesh/InputParameters"
	"github.com/meshforge/gomesh/annealing"
	"github.com/meshforge/gomesh/mesher"
)

// MeshModel holds the parsed flags for one mesh generation run
type MeshModel struct {
	RequestFile string
	Stdin       bool
	Output      string
	OutFile     string
	Seed        int64
	Profile     bool
	Verbose     bool
}

// MeshCmd represents the mesh command
var MeshCmd = &cobra.Command{
	Use:   "mesh",
	Short: "Generate a mesh from a boundary polygon request",
	Long: `Generate a mesh from a boundary polygon request, read from a YAML/JSON
request file or from stdin as JSON, and write the result as JSON, CSV or SVG`,
	Run: func(cmd *cobra.Command, args []string) {
		var (
			err error
		)
		model := &MeshModel{}
		if model.RequestFile, err = cmd.Flags().GetString("requestFile"); err != nil {
			panic(err)
		}
		model.Stdin, _ = cmd.Flags().GetBool("stdin")
		model.Output, _ = cmd.Flags().GetString("output")
		model.OutFile, _ = cmd.Flags().GetString("outFile")
		model.Seed, _ = cmd.Flags().GetInt64("seed")
		model.Profile, _ = cmd.Flags().GetBool("profile")
		model.Verbose, _ = cmd.Flags().GetBool("verbose")

		if model.Profile {
			defer profile.Start(profile.CPUProfile).Stop()
		}
		if model.Verbose {
			mesher.Verbose = true
			annealing.Verbose = true
		}
		if err = RunMesh(model); err != nil {
			fmt.Printf("error: %s\n", err.Error())
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(MeshCmd)
	MeshCmd.Flags().StringP("requestFile", "F", "", "mesh request file in YAML or JSON format")
	MeshCmd.Flags().Bool("stdin", false, "read a JSON mesh request from stdin")
	MeshCmd.Flags().StringP("output", "O", "json", "output format: json, csv or svg")
	MeshCmd.Flags().StringP("outFile", "o", "", "write output to file instead of stdout")
	MeshCmd.Flags().Int64("seed", 0, "random seed for the stochastic optimizers (0 = time seeded)")
	MeshCmd.Flags().Bool("profile", false, "write a CPU profile for this run")
	MeshCmd.Flags().BoolP("verbose", "v", false, "print generation diagnostics")
}

func RunMesh(model *MeshModel) (err error) {
	request, err := readRequest(model)
	if err != nil {
		return err
	}

	var rng *rand.Rand
	if model.Seed != 0 {
		rng = rand.New(rand.NewSource(model.Seed))
	}
	m, err := mesher.GenerateMeshSeeded(*request, rng)
	if err != nil {
		return fmt.Errorf("error generating mesh: %w", err)
	}

	out := os.Stdout
	if model.OutFile != "" {
		if out, err = os.Create(model.OutFile); err != nil {
			return err
		}
		defer out.Close()
	}

	switch model.Output {
	case "csv":
		csvContent, err := mesher.ExportCSV(request.Geometry, m)
		if err != nil {
			return err
		}
		fmt.Fprint(out, csvContent)
	case "svg":
		return mesher.ExportSVG(m, out)
	default:
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("error serializing mesh to JSON: %w", err)
		}
		fmt.Fprintln(out, string(data))
	}
	return nil
}

func readRequest(model *MeshModel) (request *mesher.MeshRequest, err error) {
	switch {
	case model.Stdin:
		data, err := ioutil.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("error reading from stdin: %w", err)
		}
		request = &mesher.MeshRequest{}
		if err = json.Unmarshal(data, request); err != nil {
			return nil, fmt.Errorf("error parsing JSON input: %w", err)
		}
		return request, nil
	case len(model.RequestFile) > 0:
		data, err := ioutil.ReadFile(model.RequestFile)
		if err != nil {
			return nil, err
		}
		var params InputParameters.MeshParameters
		if err = params.Parse(data); err != nil {
			return nil, fmt.Errorf("error parsing request file: %w", err)
		}
		params.Print()
		return &params.Request, nil
	default:
		err = fmt.Errorf("must supply a request file (-F, --requestFile) or --stdin")
		exampleFile := `
########################################
title: "Unit Rectangle"
request:
  geometry:
    points:
      - {x: 0, y: 0}
      - {x: 4, y: 0}
      - {x: 4, y: 3}
      - {x: 0, y: 3}
  max_area: 0.5
  min_angle: 25
  algorithm: delaunay
########################################
`
		fmt.Printf("Example request file:%s", exampleFile)
		return nil, err
	}
}
