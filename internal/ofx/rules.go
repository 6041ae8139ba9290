package ofx

import (
	"log/slog"

	"github.com/Veraticus/budjet/internal/common"
	"github.com/Veraticus/budjet/internal/model"
)

// CategoryRule assigns Category to imported debits whose title matches Pattern.
type CategoryRule struct {
	Pattern  string
	Category model.Category
}

// DefaultRules returns the built-in merchant rules, checked in order.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{Pattern: `(?i)grocer|whole foods|trader joe|safeway|kroger|aldi|lidl`, Category: model.CategoryGroceries},
		{Pattern: `(?i)starbucks|coffee|cafe|restaurant|pizza|burger|doordash|uber ?eats|grubhub`, Category: model.CategoryFood},
		{Pattern: `(?i)netflix|spotify|hulu|disney|cinema|theat(er|re)|steam`, Category: model.CategoryEntertainment},
		{Pattern: `(?i)ikea|home depot|lowe'?s|hardware|bed bath`, Category: model.CategoryHousehold},
		{Pattern: `(?i)pharmacy|cvs|walgreens|clinic|doctor|dental`, Category: model.CategoryNeeds},
		{Pattern: `(?i)electric|utilit|water|internet|comcast|verizon|at&t|insurance|rent`, Category: model.CategoryBills},
		{Pattern: `(?i)amazon|target|walmart|ebay|best buy|etsy`, Category: model.CategoryShopping},
	}
}

// categorize picks a category for an imported debit.
func (p *Parser) categorize(title, trnType string) model.Category {
	for _, rule := range p.rules {
		matched, err := common.MatchRegex(rule.Pattern, title)
		if err != nil {
			slog.Warn("Invalid category rule", "pattern", rule.Pattern, "error", err)
			continue
		}
		if matched {
			return rule.Category
		}
	}

	if trnType == "FEE" || trnType == "SRVCHG" {
		return model.CategoryBills
	}
	return model.DefaultCategory
}
