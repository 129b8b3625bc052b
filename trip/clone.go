package trip

// Clone returns a deep copy of the document. Stores and the state
// controller hand out copies so callers can never alias shared memory.
func (d *Document) Clone() *Document {
	if d == nil {
		return nil
	}
	out := &Document{
		Days:              CloneDays(d.Days),
		Expenses:          CloneExpenses(d.Expenses),
		Links:             append([]BookingLink(nil), d.Links...),
		Todos:             append([]Todo(nil), d.Todos...),
		TodoCategories:    append([]Category(nil), d.TodoCategories...),
		ExpenseCategories: append([]Category(nil), d.ExpenseCategories...),
		Version:           d.Version,
	}
	out.Sanitize()
	return out
}

func CloneDays(days []Day) []Day {
	out := make([]Day, len(days))
	for i, day := range days {
		out[i] = day
		out[i].Events = make([]Event, len(day.Events))
		for j, ev := range day.Events {
			out[i].Events[j] = ev
			if ev.FlightDetails != nil {
				details := *ev.FlightDetails
				out[i].Events[j].FlightDetails = &details
			}
		}
	}
	return out
}

func CloneExpenses(expenses []Expense) []Expense {
	out := make([]Expense, len(expenses))
	for i, e := range expenses {
		out[i] = e
		out[i].Involved = append([]string(nil), e.Involved...)
	}
	return out
}
