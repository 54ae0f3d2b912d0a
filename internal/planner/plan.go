package planner

import (
	"encoding/json"
	"fmt"

	"cookbook/internal/types"
)

type Day int

const (
	Monday Day = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

const DaysPerWeek = 7

var dayLabels = [DaysPerWeek]string{"Thứ Hai", "Thứ Ba", "Thứ Tư", "Thứ Năm", "Thứ Sáu", "Thứ Bảy", "Chủ Nhật"}

var dayNames = [DaysPerWeek]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Days lists the week in display order.
func Days() []Day {
	return []Day{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}
}

func (d Day) valid() bool { return d >= Monday && d <= Sunday }

// Label is the Vietnamese day name shown in the planner.
func (d Day) Label() string {
	if !d.valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayLabels[d]
}

func (d Day) String() string {
	if !d.valid() {
		return fmt.Sprintf("Day(%d)", int(d))
	}
	return dayNames[d]
}

type Slot int

const (
	Breakfast Slot = iota
	Lunch
	Dinner
)

const SlotsPerDay = 3

var slotLabels = [SlotsPerDay]string{"Sáng", "Trưa", "Tối"}

var slotCategories = [SlotsPerDay]string{"Breakfast", "Lunch", "Dinner"}

func Slots() []Slot {
	return []Slot{Breakfast, Lunch, Dinner}
}

func (s Slot) valid() bool { return s >= Breakfast && s <= Dinner }

// Category is the recipe category that fills the slot.
func (s Slot) Category() string {
	if !s.valid() {
		return ""
	}
	return slotCategories[s]
}

func (s Slot) Label() string {
	if !s.valid() {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotLabels[s]
}

func (s Slot) String() string {
	if !s.valid() {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotCategories[s]
}

// SlotForLabel maps a Vietnamese meal label back to its slot.
func SlotForLabel(label string) (Slot, bool) {
	for i, l := range slotLabels {
		if l == label {
			return Slot(i), true
		}
	}
	return 0, false
}

// Plan is the week grid. Cells are independent and an empty cell holds no recipe.
type Plan struct {
	cells [DaysPerWeek][SlotsPerDay]*types.Recipe
}

func NewPlan() *Plan { return &Plan{} }

// Set overwrites a cell whatever it held before.
func (p *Plan) Set(day Day, slot Slot, r types.Recipe) error {
	if !day.valid() || !slot.valid() {
		return fmt.Errorf("no cell for %v %v: %w", day, slot, types.ErrInvalid)
	}
	c := r.Clone()
	p.cells[day][slot] = &c
	return nil
}

func (p *Plan) Clear(day Day, slot Slot) {
	if day.valid() && slot.valid() {
		p.cells[day][slot] = nil
	}
}

func (p *Plan) Get(day Day, slot Slot) (types.Recipe, bool) {
	if !day.valid() || !slot.valid() || p.cells[day][slot] == nil {
		return types.Recipe{}, false
	}
	return p.cells[day][slot].Clone(), true
}

// Each visits filled cells in week order.
func (p *Plan) Each(fn func(day Day, slot Slot, r types.Recipe)) {
	for _, d := range Days() {
		for _, s := range Slots() {
			if r := p.cells[d][s]; r != nil {
				fn(d, s, *r)
			}
		}
	}
}

// Filled counts assigned cells.
func (p *Plan) Filled() int {
	n := 0
	p.Each(func(Day, Slot, types.Recipe) { n++ })
	return n
}

func (p *Plan) DailyCalories(day Day) int {
	if !day.valid() {
		return 0
	}
	total := 0
	for _, r := range p.cells[day] {
		if r != nil {
			total += r.Calories
		}
	}
	return total
}

// TotalCost sums the estimated cost of every assigned recipe.
func (p *Plan) TotalCost() float64 {
	var total float64
	p.Each(func(_ Day, _ Slot, r types.Recipe) { total += r.Cost() })
	return total
}

type dayJSON struct {
	Day      string                   `json:"day"`
	Label    string                   `json:"label"`
	Calories int                      `json:"calories"`
	Meals    map[string]*types.Recipe `json:"meals"`
}

// MarshalJSON renders the grid keyed by the Vietnamese meal labels, with null for
// empty cells.
func (p *Plan) MarshalJSON() ([]byte, error) {
	days := make([]dayJSON, 0, DaysPerWeek)
	for _, d := range Days() {
		dj := dayJSON{Day: d.String(), Label: d.Label(), Calories: p.DailyCalories(d), Meals: map[string]*types.Recipe{}}
		for _, s := range Slots() {
			dj.Meals[s.Label()] = p.cells[d][s]
		}
		days = append(days, dj)
	}
	return json.Marshal(days)
}
