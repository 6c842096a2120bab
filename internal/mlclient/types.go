package mlclient

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/jmehdipour/credit-decision/internal/model"
)

type ScoreRequest struct {
	Features model.Features `json:"features"`
	Model    string         `json:"model"`
}

type ScoreResult struct {
	Score   float64
	Model   string
	Version string
}

// CentralityEdge is one weighted edge submitted for centrality computation.
type CentralityEdge struct {
	Source string  `json:"source"`
	Target string  `json:"target"`
	Weight float64 `json:"weight"`
}

type centralityRequest struct {
	Edges []CentralityEdge `json:"edges"`
}

type forecastRequest struct {
	Series  []float64 `json:"serie"`
	Horizon int       `json:"horizonte"`
}

type ForecastResult struct {
	Forecast []float64 `json:"forecast"`
}

// scoreResponse accepts both the English and the legacy Portuguese keys.
type scoreResponse struct {
	Score   json.RawMessage `json:"score"`
	Model   json.RawMessage `json:"model"`
	Modelo  json.RawMessage `json:"modelo"`
	Version json.RawMessage `json:"version"`
	Versao  json.RawMessage `json:"versao"`
}

type centralityResponse struct {
	Degree      map[string]json.RawMessage `json:"grau"`
	Betweenness map[string]json.RawMessage `json:"betweenness"`
	Eigenvector map[string]json.RawMessage `json:"eigenvector"`
	Clusters    map[string]json.RawMessage `json:"clusters"`
}

func (r centralityResponse) toModel() model.Centralities {
	c := model.Centralities{
		Degree:      numericMap(r.Degree),
		Betweenness: numericMap(r.Betweenness),
		Eigenvector: numericMap(r.Eigenvector),
	}
	if r.Clusters != nil {
		c.Clusters = make(map[string]int, len(r.Clusters))
		for node, raw := range r.Clusters {
			c.Clusters[node] = clusterLabel(raw)
		}
	}
	return c
}

// clusterLabel truncates JSON numbers and parses strings as base-10
// integers; anything else is 0.
func clusterLabel(raw json.RawMessage) int {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0
		}
		return n
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return int(f)
}

// numericMap keeps only entries whose value is a finite number.
func numericMap(in map[string]json.RawMessage) map[string]float64 {
	if in == nil {
		return nil
	}
	out := make(map[string]float64, len(in))
	for node, raw := range in {
		if f, ok := toFloat(raw); ok {
			out[node] = f
		}
	}
	return out
}

// toFloat decodes a JSON number or numeric string.
func toFloat(raw json.RawMessage) (float64, bool) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, false
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return 0, false
		}
		f, err = strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return 0, false
		}
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// toText renders a string or scalar JSON value as text; null and absent are "".
func toText(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return strings.TrimSpace(string(raw))
}

func firstText(vals ...json.RawMessage) string {
	for _, v := range vals {
		if s := toText(v); s != "" {
			return s
		}
	}
	return ""
}
