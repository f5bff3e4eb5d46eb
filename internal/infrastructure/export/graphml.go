// Package export serializes analysis artifacts for external tooling.
package export

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"

	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/event"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/domain/graph"
	"github.com/turtacn/CrimeGraph-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/CrimeGraph-Intelligence/pkg/errors"
)

const graphmlNamespace = "http://graphml.graphdrawing.org/xmlns"

// Attribute key identifiers, stable so downstream tooling can rely on them.
const (
	keyLatitude  = "d_lat"
	keyLongitude = "d_lon"
	keyCommunity = "d_community"
	keyTier      = "d_tier"
	keyLabel     = "d_label"
	keyWeight    = "d_weight"
)

type graphmlKey struct {
	ID       string `xml:"id,attr"`
	For      string `xml:"for,attr"`
	AttrName string `xml:"attr.name,attr"`
	AttrType string `xml:"attr.type,attr"`
}

type graphmlData struct {
	Key   string `xml:"key,attr"`
	Value string `xml:",chardata"`
}

type graphmlNode struct {
	ID   string        `xml:"id,attr"`
	Data []graphmlData `xml:"data"`
}

type graphmlEdge struct {
	Source string        `xml:"source,attr"`
	Target string        `xml:"target,attr"`
	Data   []graphmlData `xml:"data"`
}

type graphmlGraph struct {
	EdgeDefault string        `xml:"edgedefault,attr"`
	Nodes       []graphmlNode `xml:"node"`
	Edges       []graphmlEdge `xml:"edge"`
}

type graphmlDoc struct {
	XMLName xml.Name     `xml:"graphml"`
	XMLNS   string       `xml:"xmlns,attr"`
	Keys    []graphmlKey `xml:"key"`
	Graph   graphmlGraph `xml:"graph"`
}

// GraphMLWriter renders the similarity graph in GraphML, with vertices
// annotated by coordinate, community and tier, edges by composite weight,
// and one labeled synthetic vertex per classified community.
type GraphMLWriter struct {
	logger logging.Logger
}

// NewGraphMLWriter constructs the writer.
func NewGraphMLWriter(logger logging.Logger) *GraphMLWriter {
	return &GraphMLWriter{logger: logger.Named("graphml")}
}

// Write renders the document to out.
func (w *GraphMLWriter) Write(out io.Writer, events []*event.Event, g *graph.Graph, cells []graph.Community, records []graph.Record) error {
	tierByCommunity := make(map[int]graph.Tier, len(records))
	for _, rec := range records {
		tierByCommunity[rec.ID] = rec.Tier
	}
	communityByVertex := make(map[int]int, g.Order())
	for _, cell := range cells {
		for _, m := range cell.Members {
			communityByVertex[m] = cell.ID
		}
	}

	doc := graphmlDoc{
		XMLNS: graphmlNamespace,
		Keys: []graphmlKey{
			{ID: keyLatitude, For: "node", AttrName: "latitude", AttrType: "double"},
			{ID: keyLongitude, For: "node", AttrName: "longitude", AttrType: "double"},
			{ID: keyCommunity, For: "node", AttrName: "community", AttrType: "int"},
			{ID: keyTier, For: "node", AttrName: "tier", AttrType: "string"},
			{ID: keyLabel, For: "node", AttrName: "label", AttrType: "string"},
			{ID: keyWeight, For: "edge", AttrName: "weight", AttrType: "double"},
		},
		Graph: graphmlGraph{EdgeDefault: "undirected"},
	}

	for i, ev := range events {
		node := graphmlNode{
			ID: nodeID(i),
			Data: []graphmlData{
				{Key: keyLatitude, Value: formatFloat(ev.Latitude)},
				{Key: keyLongitude, Value: formatFloat(ev.Longitude)},
			},
		}
		if cid, ok := communityByVertex[i]; ok {
			node.Data = append(node.Data, graphmlData{Key: keyCommunity, Value: fmt.Sprintf("%d", cid)})
			if tier, ok := tierByCommunity[cid]; ok {
				node.Data = append(node.Data, graphmlData{Key: keyTier, Value: string(tier)})
			}
		}
		doc.Graph.Nodes = append(doc.Graph.Nodes, node)
	}

	for i, sv := range g.SyntheticVertices() {
		doc.Graph.Nodes = append(doc.Graph.Nodes, graphmlNode{
			ID: fmt.Sprintf("s%d", i),
			Data: []graphmlData{
				{Key: keyLatitude, Value: formatFloat(sv.Latitude)},
				{Key: keyLongitude, Value: formatFloat(sv.Longitude)},
				{Key: keyLabel, Value: sv.Title},
			},
		})
	}

	for _, e := range g.Edges() {
		doc.Graph.Edges = append(doc.Graph.Edges, graphmlEdge{
			Source: nodeID(e.I),
			Target: nodeID(e.J),
			Data:   []graphmlData{{Key: keyWeight, Value: formatFloat(e.Weight)}},
		})
	}

	if _, err := io.WriteString(out, xml.Header); err != nil {
		return errors.Wrap(err, errors.ErrCodeGraphExportFailed, "write graphml header")
	}
	enc := xml.NewEncoder(out)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return errors.Wrap(err, errors.ErrCodeGraphExportFailed, "encode graphml document")
	}
	return nil
}

// WriteFile renders the document to a file at path.
func (w *GraphMLWriter) WriteFile(path string, events []*event.Event, g *graph.Graph, cells []graph.Community, records []graph.Record) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeGraphExportFailed, "create graphml file")
	}
	defer f.Close()

	if err := w.Write(f, events, g, cells, records); err != nil {
		return err
	}
	w.logger.Info("graph exported",
		logging.String("path", path),
		logging.Int("vertices", g.Order()+len(g.SyntheticVertices())),
		logging.Int("edges", g.Size()),
	)
	return f.Sync()
}

func nodeID(i int) string { return fmt.Sprintf("n%d", i) }

func formatFloat(v float64) string { return fmt.Sprintf("%g", v) }
