// Package summary derives the textual verdict for a pair of vehicles.
package summary

import (
	"fmt"
	"math"

	"github.com/okian/versus/internal/domain/ranking"
	"github.com/okian/versus/internal/domain/vehicle"
)

// GapThreshold is the minimum score difference that earns a safety or
// economy pill.
const GapThreshold = 0.5

// gapEpsilon absorbs float error in score differences such as 8.3-7.8.
const gapEpsilon = 1e-9

// Messages shown when no side wins.
const (
	EmptyTitle       = "Explora opciones para tu perfil"
	EmptySubtitle    = "Ajusta filtros para ver coincidencias claras con tus prioridades."
	TieTitle         = "Ambas opciones son muy similares"
	PriorityTieTitle = "No hay una diferencia clara según tus prioridades actuales."
)

// Side names the winning vehicle of a comparison.
type Side string

// Sides. SideNone marks a tie.
const (
	SideNone Side = ""
	SideA    Side = "a"
	SideB    Side = "b"
)

// PillKind identifies the compared attribute.
type PillKind string

// Pill kinds, in emission order.
const (
	PillPrice   PillKind = "price"
	PillSafety  PillKind = "safety"
	PillEconomy PillKind = "economy"
)

// Tone drives pill styling.
type Tone string

// Pill tones.
const (
	TonePositive Tone = "positive"
	ToneNegative Tone = "negative"
)

// Pill is a short comparative highlight.
type Pill struct {
	Kind PillKind `json:"kind"`
	Side Side     `json:"side"`
	Tone Tone     `json:"tone"`
	Text string   `json:"text"`
	// Amount is the display-currency saving; only set for price pills.
	Amount float64 `json:"amount,omitempty"`
}

// View is the verdict for a pair.
type View struct {
	Available      bool        `json:"available"`
	Title          string      `json:"title"`
	Subtitle       string      `json:"subtitle"`
	OverallWinner  Side        `json:"overallWinner"`
	PriorityWinner Side        `json:"priorityWinner"`
	Priority       ranking.Key `json:"priority"`
	Pills          []Pill      `json:"pills"`
}

// Money converts and formats amounts for the price pill.
type Money interface {
	Convert(base float64) float64
	Format(display float64) string
}

// Summarize compares a and b under the priority key. A nil vehicle yields
// the unavailable view.
func Summarize(a, b *vehicle.Vehicle, key ranking.Key, money Money) View {
	if a == nil || b == nil {
		return View{
			Title:    EmptyTitle,
			Subtitle: EmptySubtitle,
			Priority: key,
			Pills:    []Pill{},
		}
	}

	view := View{
		Available: true,
		Priority:  key,
		Pills:     make([]Pill, 0, 3),
	}

	view.OverallWinner = strictWinner(ranking.Total.Value(a), ranking.Total.Value(b))
	if w := pickSide(view.OverallWinner, a, b); w != nil {
		view.Title = fmt.Sprintf("%s encaja mejor con lo que valoras", w.Name())
	} else {
		view.Title = TieTitle
	}

	view.PriorityWinner = strictWinner(key.Value(a), key.Value(b))
	if w := pickSide(view.PriorityWinner, a, b); w != nil {
		view.Subtitle = fmt.Sprintf("%s destaca ligeramente en %s, según tus prioridades.", w.Brand, key.Label())
	} else {
		view.Subtitle = PriorityTieTitle
	}

	if p, ok := pricePill(a, b, money); ok {
		view.Pills = append(view.Pills, p)
	}
	if side := gapWinner(a.SafetyScore, b.SafetyScore); side != SideNone {
		view.Pills = append(view.Pills, Pill{
			Kind: PillSafety,
			Side: side,
			Tone: TonePositive,
			Text: fmt.Sprintf("%s ofrece mejor seguridad", pickSide(side, a, b).Brand),
		})
	}
	if side := gapWinner(a.EconomyScore, b.EconomyScore); side != SideNone {
		view.Pills = append(view.Pills, Pill{
			Kind: PillEconomy,
			Side: side,
			Tone: TonePositive,
			Text: fmt.Sprintf("%s optimiza mejor el consumo", pickSide(side, a, b).Brand),
		})
	}
	return view
}

// pricePill names the cheaper vehicle. The tone is negative when A is the
// cheaper one and positive otherwise.
func pricePill(a, b *vehicle.Vehicle, money Money) (Pill, bool) {
	diff := zeroNaN(b.Price) - zeroNaN(a.Price)
	if diff == 0 {
		return Pill{}, false
	}
	p := Pill{Kind: PillPrice, Side: SideB, Tone: TonePositive}
	if diff > 0 {
		p.Side, p.Tone = SideA, ToneNegative
	}
	saved := math.Abs(diff)
	if money != nil {
		p.Amount = money.Convert(saved)
		p.Text = fmt.Sprintf("%s ahorra %s", pickSide(p.Side, a, b).Brand, money.Format(p.Amount))
	} else {
		p.Amount = saved
		p.Text = fmt.Sprintf("%s ahorra %.0f", pickSide(p.Side, a, b).Brand, saved)
	}
	return p, true
}

func strictWinner(a, b float64) Side {
	switch {
	case a > b:
		return SideA
	case b > a:
		return SideB
	default:
		return SideNone
	}
}

func gapWinner(a, b float64) Side {
	gap := zeroNaN(a) - zeroNaN(b)
	if math.Abs(gap)+gapEpsilon < GapThreshold {
		return SideNone
	}
	if gap > 0 {
		return SideA
	}
	return SideB
}

func pickSide(s Side, a, b *vehicle.Vehicle) *vehicle.Vehicle {
	switch s {
	case SideA:
		return a
	case SideB:
		return b
	default:
		return nil
	}
}

func zeroNaN(x float64) float64 {
	if math.IsNaN(x) {
		return 0
	}
	return x
}
