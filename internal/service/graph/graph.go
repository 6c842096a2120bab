package graph

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/jmehdipour/credit-decision/internal/logger"
	"github.com/jmehdipour/credit-decision/internal/metrics"
	"github.com/jmehdipour/credit-decision/internal/mlclient"
	"github.com/jmehdipour/credit-decision/internal/model"
	"github.com/jmehdipour/credit-decision/internal/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// MaxEdges caps the edges kept after sorting by weight.
const MaxEdges = 200

type Resolver interface {
	Resolve(ctx context.Context, identifier string) (*model.Company, error)
}

type Transactions interface {
	RecentByCompany(ctx context.Context, companyID string, limit int) ([]model.Transaction, error)
}

type CentralityGateway interface {
	Centralities(ctx context.Context, edges []mlclient.CentralityEdge) (model.Centralities, error)
}

// Builder aggregates a company's transactions into a weighted directed graph
// and enriches its nodes with centralities when the ML service answers.
type Builder struct {
	resolver Resolver
	txs      Transactions
	gateway  CentralityGateway
	log      *zap.Logger
}

func New(resolver Resolver, txs Transactions, gateway CentralityGateway, log *zap.Logger) *Builder {
	return &Builder{resolver: resolver, txs: txs, gateway: gateway, log: logger.OrNop(log)}
}

// Build never fails because of enrichment; only resolution and the
// transaction read can return errors.
func (b *Builder) Build(ctx context.Context, identifier string) (*model.Graph, error) {
	company, err := b.resolver.Resolve(ctx, identifier)
	if err != nil {
		return nil, err
	}

	txs, err := b.txs.RecentByCompany(ctx, company.ID, repository.MaxGraphTransactions)
	if err != nil {
		return nil, fmt.Errorf("transactions %s: %w", company.ID, err)
	}

	g := &model.Graph{
		CompanyID: company.ID,
		TaxID:     company.TaxIDValue(),
		Edges:     Aggregate(txs),
	}
	if len(g.Edges) == 0 {
		g.Nodes = []model.Node{{ID: company.ID, Label: company.ID}}
		metrics.GraphEnrichmentTotal.WithLabelValues("skipped").Inc()
		return g, nil
	}
	g.Nodes = nodesFor(company.ID, g.Edges)

	cent, ok := b.enrich(ctx, company.ID, g.Edges)
	if !ok {
		return g, nil
	}

	applyCentralities(g.Nodes, cent)
	g.Centralities = &cent
	return g, nil
}

func (b *Builder) enrich(ctx context.Context, companyID string, edges []model.Edge) (model.Centralities, bool) {
	payload := make([]mlclient.CentralityEdge, 0, len(edges))
	for _, e := range edges {
		payload = append(payload, mlclient.CentralityEdge{Source: e.From, Target: e.To, Weight: e.Value})
	}

	cent, err := b.gateway.Centralities(ctx, payload)
	if err != nil {
		metrics.GraphEnrichmentTotal.WithLabelValues("degraded").Inc()
		b.log.Warn("centrality enrichment failed, returning plain graph",
			zap.String("company_id", companyID),
			zap.Int("edges", len(edges)),
			zap.Error(err),
		)
		return model.Centralities{}, false
	}
	if cent.Empty() {
		metrics.GraphEnrichmentTotal.WithLabelValues("degraded").Inc()
		return model.Centralities{}, false
	}

	metrics.GraphEnrichmentTotal.WithLabelValues("ok").Inc()
	return cent, true
}

type pair struct {
	from, to string
	sum      decimal.Decimal
}

// Aggregate sums amounts per payer->receiver pair, keeps the MaxEdges
// heaviest non-zero pairs and numbers them from 1. Pairs with equal weight
// keep their first-seen order.
func Aggregate(txs []model.Transaction) []model.Edge {
	index := make(map[string]int)
	var pairs []pair

	for _, tx := range txs {
		payer, receiver := tx.PayerID, tx.ReceiverID
		if strings.TrimSpace(payer) == "" || strings.TrimSpace(receiver) == "" || tx.Amount == 0 {
			continue
		}

		key := payer + "->" + receiver
		amt := decimal.NewFromFloat(tx.Amount)
		if i, ok := index[key]; ok {
			pairs[i].sum = pairs[i].sum.Add(amt)
			continue
		}
		index[key] = len(pairs)
		pairs = append(pairs, pair{from: payer, to: receiver, sum: amt})
	}

	sort.SliceStable(pairs, func(i, j int) bool {
		return pairs[i].sum.GreaterThan(pairs[j].sum)
	})

	edges := make([]model.Edge, 0, min(len(pairs), MaxEdges))
	for _, p := range pairs {
		if p.sum.IsZero() {
			continue
		}
		if len(edges) == MaxEdges {
			break
		}
		edges = append(edges, model.Edge{
			ID:    len(edges) + 1,
			From:  p.from,
			To:    p.to,
			Value: p.sum.InexactFloat64(),
		})
	}
	return edges
}

// nodesFor lists the highlighted company first, then every edge endpoint in
// first-seen order.
func nodesFor(companyID string, edges []model.Edge) []model.Node {
	seen := map[string]struct{}{companyID: {}}
	nodes := []model.Node{{ID: companyID, Label: companyID, Highlight: true}}

	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		nodes = append(nodes, model.Node{ID: id, Label: id})
	}
	for _, e := range edges {
		add(e.From)
		add(e.To)
	}
	return nodes
}

func applyCentralities(nodes []model.Node, c model.Centralities) {
	for i := range nodes {
		id := nodes[i].ID
		if v, ok := c.Degree[id]; ok {
			nodes[i].Value = &v
		}
		if v, ok := c.Betweenness[id]; ok {
			nodes[i].Betweenness = &v
		}
		if v, ok := c.Eigenvector[id]; ok {
			nodes[i].Eigenvector = &v
		}
		if v, ok := c.Clusters[id]; ok {
			nodes[i].Cluster = &v
		}
	}
}
