package collision

import (
	"github.com/san-kum/gravsim/internal/body"
)

// Event describes one detected contact.
type Event struct {
	A       body.Ref `json:"-"`
	B       body.Ref `json:"-"`
	NameA   string   `json:"a"`
	NameB   string   `json:"b"`
	RadiusA float64  `json:"radius_a"`
	RadiusB float64  `json:"radius_b"`
	Time    float64  `json:"time"`
	Step    int      `json:"step"`
}

func (e Event) Pair() string {
	return label(e.A, e.NameA) + "/" + label(e.B, e.NameB)
}

func label(r body.Ref, name string) string {
	if name != "" {
		return name
	}
	return r.String()
}

type Detector struct {
	sink Sink
}

func NewDetector(sink Sink) *Detector {
	if sink == nil {
		sink = NopSink{}
	}
	return &Detector{sink: sink}
}

// Scan tests every unordered pair of the catalog over the next dt and reports
// each hit to the sink. now and step only label the events.
func (d *Detector) Scan(cat *body.Catalog, dt, now float64, step int) []Event {
	views := cat.Views()
	colliders := make([]Collider, len(views))
	for i, v := range views {
		colliders[i] = FromView(v)
	}

	var events []Event
	for i := range colliders {
		a := colliders[i]
		for j := i + 1; j < len(colliders); j++ {
			b := colliders[j]
			if !Test(dt, a, b) {
				continue
			}
			ev := Event{
				A: a.Ref, B: b.Ref,
				NameA: a.Name, NameB: b.Name,
				RadiusA: a.Radius, RadiusB: b.Radius,
				Time: now, Step: step,
			}
			d.sink.Collision(ev)
			events = append(events, ev)
		}
	}
	return events
}

// Overlaps returns every pair already touching at rest, including static pairs.
// It is meant to run once at setup.
func Overlaps(cat *body.Catalog) []Event {
	views := cat.Views()
	var events []Event
	for i := range views {
		for j := i + 1; j < len(views); j++ {
			a, b := views[i], views[j]
			r := a.Radius + b.Radius
			if b.Position.Sub(a.Position).LenSq() <= r*r {
				events = append(events, Event{
					A: a.Ref, B: b.Ref,
					NameA: a.Name, NameB: b.Name,
					RadiusA: a.Radius, RadiusB: b.Radius,
				})
			}
		}
	}
	return events
}
