package core

import "time"

// MeasurementType distinguishes a producer's output from a consumer's draw.
type MeasurementType string

const (
	MeasurementProduction  MeasurementType = "PRODUCTION"
	MeasurementConsumption MeasurementType = "CONSUMPTION"
)

// Sectors is the allow-list of price/geographic zones this deployment
// accepts. Kept as a package variable (rather than a const slice) so a
// future zone rollout is a one-line change, not a schema migration.
var Sectors = []string{"DK1", "DK2"}

func validSector(s string) bool {
	for _, z := range Sectors {
		if s == z {
			return true
		}
	}
	return false
}

// Measurement records one hour of production or consumption in one sector.
// Created once by PublishMeasurement; immutable thereafter.
type Measurement struct {
	Amount uint64          `json:"amount"`
	Type   MeasurementType `json:"type"`
	Begin  time.Time       `json:"begin"`
	End    time.Time       `json:"end"`
	Sector string          `json:"sector"`
}

// GGOAction is the terminal action recorded against a consumed GGO.
type GGOAction string

const (
	ActionTransfer GGOAction = "TRANSFER"
	ActionSplit    GGOAction = "SPLIT"
	ActionRetire   GGOAction = "RETIRE"
)

// GGONext is a GGO's forward pointer to its successor action. A GGO with a
// non-nil Next is consumed and can never be reused (spec.md invariant 1).
type GGONext struct {
	Action    GGOAction `json:"action"`
	Addresses []string  `json:"addresses"`
}

// Emission is an opaque, per-pollutant carrier copied verbatim across
// split/transfer children. Nothing in this system merges or sums emissions
// (spec.md §9, Open Question 3) — it is carried, never interpreted.
type Emission struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
}

// GGO is a certificate for a quantity of energy of known provenance. Amount,
// Begin, End, Sector, TechType, FuelType and Emissions are invariant along
// the causal chain back to the originating production Measurement — only
// Amount subdivides on split, and only so children sum to the parent.
type GGO struct {
	Origin     string              `json:"origin"`
	Amount     uint64              `json:"amount"`
	Begin      time.Time           `json:"begin"`
	End        time.Time           `json:"end"`
	Sector     string              `json:"sector"`
	TechType   string              `json:"tech_type"`
	FuelType   string              `json:"fuel_type"`
	Emissions  map[string]Emission `json:"emissions"`
	Next       *GGONext            `json:"next"`
}

// Live reports whether the GGO has not yet been consumed.
func (g *GGO) Live() bool { return g.Next == nil }

// Clone deep-copies g, including the Emissions map. Go maps are reference
// types: without this, a split/transfer child and its parent would share one
// underlying map and a later mutation of either would corrupt both —
// original_source's Python dict-copy-on-split behavior, made explicit here
// because Go needs it spelled out.
func (g *GGO) Clone() *GGO {
	out := *g
	out.Next = nil
	if g.Emissions != nil {
		out.Emissions = make(map[string]Emission, len(g.Emissions))
		for k, v := range g.Emissions {
			out.Emissions[k] = v
		}
	}
	return &out
}

// SettlementPart records one retired GGO folded into a settlement, and the
// amount it contributed.
type SettlementPart struct {
	GGO    string `json:"ggo"`
	Amount uint64 `json:"amount"`
}

// Settlement binds a consumer's consumption Measurement to the set of
// retired GGOs that account for it. Created by the first Settlement
// transaction bound to that measurement; append-only thereafter.
type Settlement struct {
	Measurement string           `json:"measurement"`
	Parts       []SettlementPart `json:"parts"`
}

// HasPart reports whether ggoAddress already contributed a part.
func (s *Settlement) HasPart(ggoAddress string) bool {
	for _, p := range s.Parts {
		if p.GGO == ggoAddress {
			return true
		}
	}
	return false
}

// TotalAmount sums every part's contribution.
func (s *Settlement) TotalAmount() uint64 {
	var total uint64
	for _, p := range s.Parts {
		total += p.Amount
	}
	return total
}
