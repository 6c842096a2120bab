package model

// Edge is an aggregated payer->receiver relationship.
type Edge struct {
	ID    int     `json:"id"`
	From  string  `json:"from"`
	To    string  `json:"to"`
	Value float64 `json:"value"`
}

// Node carries whichever centrality metrics were available for it.
type Node struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Value       *float64 `json:"value,omitempty"` // degree centrality
	Betweenness *float64 `json:"betweenness,omitempty"`
	Eigenvector *float64 `json:"eigenvector,omitempty"`
	Cluster     *int     `json:"cluster,omitempty"`
	Highlight   bool     `json:"highlight,omitempty"`
}

// Centralities holds per-node metrics keyed by node id. Nil maps mean the
// metric was absent from the ML response.
type Centralities struct {
	Degree      map[string]float64 `json:"grau,omitempty"`
	Betweenness map[string]float64 `json:"betweenness,omitempty"`
	Eigenvector map[string]float64 `json:"eigenvector,omitempty"`
	Clusters    map[string]int     `json:"clusters,omitempty"`
}

func (c Centralities) Empty() bool {
	return len(c.Degree) == 0 && len(c.Betweenness) == 0 && len(c.Eigenvector) == 0 && len(c.Clusters) == 0
}

type Graph struct {
	CompanyID    string        `json:"companyId"`
	TaxID        string        `json:"taxId"`
	Nodes        []Node        `json:"nodes"`
	Edges        []Edge        `json:"edges"`
	Centralities *Centralities `json:"centralities,omitempty"`
}
