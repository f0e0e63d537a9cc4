package engine

import (
	"fraudnet/internal/dataset"
	"fraudnet/internal/network"
)

// Details describes the selected node for the side panel.
type Details struct {
	Node     network.Node
	Ring     dataset.Ring
	HasRing  bool
	Incoming []network.Edge
	Outgoing []network.Edge
	Inflow   float64
	Outflow  float64
}

// Selected returns details of the selected node, if any.
func (e *Engine) Selected() (Details, bool) {
	return e.DetailsOf(e.state.SelectedID)
}

// Hovered returns details of the node under the pointer, if any.
func (e *Engine) Hovered() (Details, bool) {
	return e.DetailsOf(e.state.HoveredID)
}

func (e *Engine) DetailsOf(id string) (Details, bool) {
	n, ok := e.model.Node(id)
	if !ok {
		return Details{}, false
	}
	d := Details{Node: n}
	d.Ring, d.HasRing = e.analysis.RingByID(n.RingID)
	d.Incoming, d.Outgoing = e.model.EdgesOf(id)
	for _, edge := range d.Incoming {
		d.Inflow += edge.Amount
	}
	for _, edge := range d.Outgoing {
		d.Outflow += edge.Amount
	}
	return d, true
}
