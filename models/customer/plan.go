package customer

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// PlanKind selects which days a subscription delivers on.
type PlanKind string

const (
	PlanDaily        PlanKind = "daily"
	PlanWeekdays     PlanKind = "weekdays"
	PlanExplicitDays PlanKind = "explicit_days"
	PlanMonthly      PlanKind = "monthly"
)

// MonthlyCycleDays is the canonical length of a Monthly billing cycle.
const MonthlyCycleDays = 30

var weekdayCodes = map[string]time.Weekday{
	"sun": time.Sunday,
	"mon": time.Monday,
	"tue": time.Tuesday,
	"wed": time.Wednesday,
	"thu": time.Thursday,
	"fri": time.Friday,
	"sat": time.Saturday,
}

// Plan is the day selector of a subscription. Days is only meaningful for
// PlanExplicitDays.
type Plan struct {
	Kind PlanKind
	Days []time.Weekday
}

func Daily() Plan    { return Plan{Kind: PlanDaily} }
func Weekdays() Plan { return Plan{Kind: PlanWeekdays} }
func Monthly() Plan  { return Plan{Kind: PlanMonthly} }

// ExplicitDays builds a plan delivering on the given weekdays.
func ExplicitDays(days ...time.Weekday) Plan {
	return Plan{Kind: PlanExplicitDays, Days: normalizeDays(days)}
}

// ParsePlan accepts "Daily", "Weekdays", "Monthly" or a comma separated list
// of three-letter weekday codes such as "Mon,Wed,Fri".
func ParsePlan(s string) (Plan, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "":
		return Plan{}, errors.New("plan is required")
	case "daily":
		return Daily(), nil
	case "weekdays", "weekday", "every weekday":
		return Weekdays(), nil
	case "monthly":
		return Monthly(), nil
	}

	var days []time.Weekday
	for _, part := range strings.Split(s, ",") {
		code := strings.ToLower(strings.TrimSpace(part))
		if len(code) > 3 {
			code = code[:3]
		}
		day, ok := weekdayCodes[code]
		if !ok {
			return Plan{}, fmt.Errorf("unknown weekday code %q in plan", strings.TrimSpace(part))
		}
		days = append(days, day)
	}
	return ExplicitDays(days...), nil
}

// Covers reports whether the plan delivers on the date t.
func (p Plan) Covers(t time.Time) bool {
	switch p.Kind {
	case PlanDaily, PlanMonthly:
		return true
	case PlanWeekdays:
		wd := t.Weekday()
		return wd != time.Saturday && wd != time.Sunday
	case PlanExplicitDays:
		wd := t.Weekday()
		for _, d := range p.Days {
			if d == wd {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// DefaultCycleDays is the cycle length a new subscription gets when none is given.
func (p Plan) DefaultCycleDays() int {
	return MonthlyCycleDays
}

func (p Plan) IsZero() bool {
	return p.Kind == ""
}

// String renders the plan in the form accepted by ParsePlan.
func (p Plan) String() string {
	switch p.Kind {
	case PlanDaily:
		return "Daily"
	case PlanWeekdays:
		return "Weekdays"
	case PlanMonthly:
		return "Monthly"
	case PlanExplicitDays:
		codes := make([]string, 0, len(p.Days))
		for _, d := range p.Days {
			codes = append(codes, d.String()[:3])
		}
		return strings.Join(codes, ",")
	default:
		return ""
	}
}

// Scan implements the Scanner interface for database deserialization
func (p *Plan) Scan(value interface{}) error {
	var s string
	switch v := value.(type) {
	case nil:
		*p = Plan{}
		return nil
	case string:
		s = v
	case []byte:
		s = string(v)
	default:
		return fmt.Errorf("cannot scan %T into Plan", value)
	}
	parsed, err := ParsePlan(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Value implements the driver Valuer interface for database serialization
func (p Plan) Value() (driver.Value, error) {
	if p.IsZero() {
		return nil, nil
	}
	return p.String(), nil
}

func (p Plan) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *Plan) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParsePlan(s)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

func normalizeDays(days []time.Weekday) []time.Weekday {
	seen := make(map[time.Weekday]bool, len(days))
	out := make([]time.Weekday, 0, len(days))
	for _, d := range days {
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	// Monday first, Sunday last
	sort.Slice(out, func(i, j int) bool {
		return (out[i]+6)%7 < (out[j]+6)%7
	})
	return out
}
