package report

import (
	"github.com/Veraticus/budjet/internal/service"
)

// ToExport flattens an aggregate into the shape published by report writers.
func ToExport(agg MonthlyAggregate, currencySymbol string) service.MonthlyExport {
	out := service.MonthlyExport{
		Period:         agg.Period,
		CurrencySymbol: currencySymbol,
		Total:          agg.Total,
		Groups:         make([]service.ExportGroup, 0, len(agg.Groups)),
		Rows:           make([]service.ExportRow, 0, agg.Count),
	}

	for _, g := range agg.Groups {
		out.Groups = append(out.Groups, service.ExportGroup{
			Category: g.Category,
			Total:    g.Total,
			Share:    g.Share,
			Count:    len(g.Expenses),
		})
		for _, e := range g.Expenses {
			out.Rows = append(out.Rows, service.ExportRow{
				Date:     e.Date,
				Title:    e.DisplayTitle(),
				Category: g.Category,
				Note:     e.Note,
				Amount:   e.Amount,
			})
		}
	}

	return out
}
