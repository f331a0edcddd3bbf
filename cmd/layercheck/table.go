package main

import (
	"fmt"
	"io"

	"github.com/milk9111/layerfilter/layer"
	"github.com/milk9111/layerfilter/scheme"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newTableCmd(opts *options, defaultScheme string) *cobra.Command {
	return &cobra.Command{
		Use:   "table [scheme]",
		Short: "Print the layer mapping and both collision decision tables",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := defaultScheme
			if len(args) == 1 {
				name = args[0]
			}
			s, err := scheme.LoadScheme(opts.dir, name)
			if err != nil {
				return err
			}
			printScheme(cmd.OutOrStdout(), s)
			return nil
		},
	}
}

func newTable(w io.Writer, header []string) *tablewriter.Table {
	t := tablewriter.NewWriter(w)
	t.SetHeader(header)
	t.SetAutoFormatHeaders(false)
	t.SetAlignment(tablewriter.ALIGN_LEFT)
	return t
}

func mark(ok bool) string {
	if ok {
		return "x"
	}
	return "."
}

func printScheme(w io.Writer, s *scheme.Scheme) {
	tbl := s.Table
	n := tbl.NumObjectLayers()
	nbp := tbl.NumBroadPhaseLayers()

	fmt.Fprintf(w, "scheme %s: %d object layers, %d broad-phase layers\n\n", s.Name, n, nbp)

	mapping := newTable(w, []string{"#", "object layer", "broad-phase layer"})
	for l := uint32(0); l < n; l++ {
		ol := layer.ObjectLayer(l)
		mapping.Append([]string{fmt.Sprint(l), tbl.ObjectLayerName(ol), tbl.BroadPhaseLayerName(tbl.BroadPhaseLayer(ol))})
	}
	mapping.Render()
	fmt.Fprintln(w)

	header := []string{"pairs"}
	for l := uint32(0); l < n; l++ {
		header = append(header, tbl.ObjectLayerName(layer.ObjectLayer(l)))
	}
	pairs := newTable(w, header)
	for a := uint32(0); a < n; a++ {
		row := []string{tbl.ObjectLayerName(layer.ObjectLayer(a))}
		for b := uint32(0); b < n; b++ {
			row = append(row, mark(s.Pairs.ShouldCollide(layer.ObjectLayer(a), layer.ObjectLayer(b))))
		}
		pairs.Append(row)
	}
	pairs.Render()
	fmt.Fprintln(w)

	header = []string{"buckets"}
	for b := uint32(0); b < nbp; b++ {
		header = append(header, tbl.BroadPhaseLayerName(layer.BroadPhaseLayer(b)))
	}
	buckets := newTable(w, header)
	for a := uint32(0); a < n; a++ {
		row := []string{tbl.ObjectLayerName(layer.ObjectLayer(a))}
		for b := uint32(0); b < nbp; b++ {
			row = append(row, mark(s.BroadPhase.ShouldCollide(layer.ObjectLayer(a), layer.BroadPhaseLayer(b))))
		}
		buckets.Append(row)
	}
	buckets.Render()
}
