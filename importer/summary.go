package importer

import (
	"io"
	"regexp"
	"strings"

	"github.com/docal56/sharewillow-onboarding/generic"
	"github.com/docal56/sharewillow-onboarding/plan"
	"github.com/shopspring/decimal"
)

// =============================================================================
// COLUMN CANDIDATES
// =============================================================================

// Candidates are tried in order: first for an exact normalized match, then
// for a partial one.
var (
	jobTotalColumns   = []string{"jobtotal", "job_total", "total", "invoicetotal", "invoice_total", "tickettotal", "ticket_total", "amount", "revenue"}
	billableColumns   = []string{"billablehours", "billable_hours", "billable", "billabletime", "productivehours"}
	totalHoursColumns = []string{"totalhours", "total_hours", "hours", "workedhours", "availablehours"}
	jobTypeColumns    = []string{"jobtype", "job_type", "type", "servicetype", "service_type", "category", "description", "jobdescription", "calltype"}
	ratingColumns     = []string{"googlerating", "google_rating", "rating", "reviewrating", "average_rating"}
	overtimeColumns   = []string{"monthlyovertimespend", "overtimespend", "overtimecost", "overtime_pay", "overtimepay", "otcost"}
	technicianColumns = []string{"technician", "technicianname", "tech", "techname", "assignedtech", "employee"}
	callbackKeywords  = []string{"callback", "recall", "return", "warranty", "redo"}
	maxGoogleRating   = decimal.NewFromInt(5)
	hundred           = decimal.NewFromInt(100)
	nonAlnum          = regexp.MustCompile(`[^a-z0-9]`)
	parenthesized     = regexp.MustCompile(`\(([^)]+)\)`)
	numberNoise       = regexp.MustCompile(`[$,%\s]`)
)

func normalize(s string) string {
	return nonAlnum.ReplaceAllString(strings.ToLower(s), "")
}

// FindColumn returns the index of the first header matching a candidate,
// or -1.
func FindColumn(header []string, candidates []string) int {
	keys := make([]string, len(header))
	for i, h := range header {
		keys[i] = normalize(h)
	}

	for _, c := range candidates {
		nc := normalize(c)
		for i, k := range keys {
			if k != "" && k == nc {
				return i
			}
		}
	}
	for _, c := range candidates {
		nc := normalize(c)
		for i, k := range keys {
			if k != "" && (strings.Contains(k, nc) || strings.Contains(nc, k)) {
				return i
			}
		}
	}
	return -1
}

// ParseNumber reads a cell like "$1,250.00", "42%" or "(300)". Accounting
// parentheses mean negative.
func ParseNumber(s string) (decimal.Decimal, bool) {
	cleaned := parenthesized.ReplaceAllString(s, "-$1")
	cleaned = numberNoise.ReplaceAllString(cleaned, "")
	if cleaned == "" {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

// =============================================================================
// SUMMARY
// =============================================================================

// Import reads an export and summarizes it. The format comes from the
// file name.
func Import(r io.Reader, filename string) (plan.MetricSummary, error) {
	t, err := Read(r, FormatOf(filename))
	if err != nil {
		return plan.MetricSummary{}, err
	}
	return Summarize(t), nil
}

// Summarize derives the metric summary from a job export. Metrics whose
// columns are absent stay unknown.
func Summarize(t Table) plan.MetricSummary {
	summary := plan.MetricSummary{TotalJobs: len(t.Rows)}
	if len(t.Rows) == 0 {
		return summary
	}

	jobTotal := FindColumn(t.Header, jobTotalColumns)
	summary.AvgTicket, summary.TotalRevenue = ticketStats(t, jobTotal)
	summary.BillableEfficiency = billableEfficiency(t,
		FindColumn(t.Header, billableColumns), FindColumn(t.Header, totalHoursColumns))
	summary.CallbackRate = callbackRate(t, FindColumn(t.Header, jobTypeColumns))
	summary.GoogleRating = googleRating(t, FindColumn(t.Header, ratingColumns))
	summary.MonthlyOvertimeSpend = overtime(t, FindColumn(t.Header, overtimeColumns))

	if best, ok := topTechnician(t, FindColumn(t.Header, technicianColumns), jobTotal); ok {
		summary.TopPerformers = map[plan.KPIName]decimal.Decimal{
			plan.KPIAverageJobValue: best,
		}
	}
	return summary
}

// numbers collects the parsed values of a column that pass keep.
func numbers(t Table, col int, keep func(decimal.Decimal) bool) []decimal.Decimal {
	if col < 0 {
		return nil
	}
	var out []decimal.Decimal
	for i := range t.Rows {
		v, ok := ParseNumber(t.Cell(i, col))
		if ok && keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func positive(v decimal.Decimal) bool    { return v.IsPositive() }
func nonNegative(v decimal.Decimal) bool { return !v.IsNegative() }

func mean(values []decimal.Decimal) decimal.Decimal {
	return decimal.Sum(values[0], values[1:]...).Div(decimal.NewFromInt(int64(len(values))))
}

func ticketStats(t Table, col int) (avg, total decimal.NullDecimal) {
	values := numbers(t, col, positive)
	if len(values) == 0 {
		return generic.Unknown(), generic.Unknown()
	}
	sum := decimal.Sum(values[0], values[1:]...)
	return generic.KnownDecimal(generic.Whole(mean(values))), generic.KnownDecimal(sum)
}

func billableEfficiency(t Table, billableCol, totalCol int) decimal.NullDecimal {
	if billableCol < 0 || totalCol < 0 {
		return generic.Unknown()
	}
	billable, total := decimal.Zero, decimal.Zero
	pairs := 0
	for i := range t.Rows {
		b, okB := ParseNumber(t.Cell(i, billableCol))
		h, okH := ParseNumber(t.Cell(i, totalCol))
		if !okB || !okH || !h.IsPositive() {
			continue
		}
		billable = billable.Add(b)
		total = total.Add(h)
		pairs++
	}
	if pairs == 0 {
		return generic.Unknown()
	}
	return generic.KnownDecimal(generic.Percent(billable, total))
}

func callbackRate(t Table, col int) decimal.NullDecimal {
	if col < 0 {
		return generic.Unknown()
	}
	callbacks := 0
	for i := range t.Rows {
		if isCallback(t.Cell(i, col)) {
			callbacks++
		}
	}
	rate := decimal.NewFromInt(int64(callbacks)).Mul(hundred).Div(decimal.NewFromInt(int64(len(t.Rows))))
	return generic.KnownDecimal(rate.Round(1))
}

func isCallback(jobType string) bool {
	v := strings.ToLower(jobType)
	for _, kw := range callbackKeywords {
		if strings.Contains(v, kw) {
			return true
		}
	}
	return false
}

func googleRating(t Table, col int) decimal.NullDecimal {
	values := numbers(t, col, func(v decimal.Decimal) bool {
		return v.IsPositive() && v.LessThanOrEqual(maxGoogleRating)
	})
	if len(values) == 0 {
		return generic.Unknown()
	}
	return generic.KnownDecimal(mean(values).Round(1))
}

func overtime(t Table, col int) decimal.NullDecimal {
	values := numbers(t, col, nonNegative)
	if len(values) == 0 {
		return generic.Unknown()
	}
	return generic.KnownDecimal(generic.Whole(mean(values)))
}

// topTechnician returns the highest per-technician average ticket.
func topTechnician(t Table, techCol, totalCol int) (decimal.Decimal, bool) {
	if techCol < 0 || totalCol < 0 || techCol == totalCol {
		return decimal.Decimal{}, false
	}

	type tally struct {
		sum  decimal.Decimal
		jobs int64
	}
	byTech := make(map[string]*tally)
	var order []string
	for i := range t.Rows {
		name := t.Cell(i, techCol)
		v, ok := ParseNumber(t.Cell(i, totalCol))
		if name == "" || !ok || !v.IsPositive() {
			continue
		}
		tl, seen := byTech[name]
		if !seen {
			tl = &tally{}
			byTech[name] = tl
			order = append(order, name)
		}
		tl.sum = tl.sum.Add(v)
		tl.jobs++
	}

	var best decimal.Decimal
	found := false
	for _, name := range order {
		avg := byTech[name].sum.Div(decimal.NewFromInt(byTech[name].jobs))
		if !found || avg.GreaterThan(best) {
			best, found = avg, true
		}
	}
	if !found {
		return decimal.Decimal{}, false
	}
	return generic.Whole(best), true
}
