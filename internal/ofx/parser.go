// Package ofx turns OFX/QFX bank and credit card statements into expense drafts.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/budjet/internal/model"
	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"
)

// Entry is one debit from a statement, ready to be stored.
type Entry struct {
	Draft   model.Expense
	FitID   string
	Account string
	Type    string
}

// Result is the outcome of parsing a statement file.
type Result struct {
	Entries  []Entry
	Accounts []string // Distinct account ids, sorted
	Credits  int      // Credits and zero amounts are not expenses and are skipped
}

// Parser implements OFX/QFX file parsing.
type Parser struct {
	rules []CategoryRule
}

// NewParser creates a new OFX parser using the default category rules.
func NewParser() *Parser {
	return &Parser{rules: DefaultRules()}
}

// NewParserWithRules creates a parser with custom category rules.
func NewParserWithRules(rules []CategoryRule) *Parser {
	return &Parser{rules: rules}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
)

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// SEVERITY must be upper case
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML exports sometimes drop the closing bracket of a bare tag
	return tagFixRegex.ReplaceAllString(content, "$1>")
}

func (p *Parser) parse(reader io.Reader) (*ofxgo.Response, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(p.preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}
	return resp, nil
}

// statement is the part of a bank or card statement response the parser needs.
type statement struct {
	account string
	card    bool
	txns    []ofxgo.Transaction
}

// statements flattens the bank and credit card message sets of resp.
func statements(resp *ofxgo.Response) []statement {
	var out []statement
	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			st := statement{account: string(stmt.BankAcctFrom.AcctID)}
			if stmt.BankTranList != nil {
				st.txns = stmt.BankTranList.Transactions
			}
			out = append(out, st)
		}
	}
	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			st := statement{account: string(stmt.CCAcctFrom.AcctID), card: true}
			if stmt.BankTranList != nil {
				st.txns = stmt.BankTranList.Transactions
			}
			out = append(out, st)
		}
	}
	return out
}

// ParseFile parses an OFX/QFX file and returns its debits as expense drafts.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader) (Result, error) {
	resp, err := p.parse(reader)
	if err != nil {
		return Result{}, err
	}

	var result Result
	var cards int
	stmts := statements(resp)
	for _, st := range stmts {
		if st.card {
			cards++
		}
		p.collect(&result, st.txns, st.account)
		if st.account != "" && !slices.Contains(result.Accounts, st.account) {
			result.Accounts = append(result.Accounts, st.account)
		}
	}
	slices.Sort(result.Accounts)

	slog.DebugContext(ctx, "Parsed OFX file",
		"expenses", len(result.Entries),
		"skipped_credits", result.Credits,
		"bank_statements", len(stmts)-cards,
		"cc_statements", cards)

	return result, nil
}

func (p *Parser) collect(result *Result, txns []ofxgo.Transaction, account string) {
	for _, ofxTx := range txns {
		entry, ok := p.convertTransaction(ofxTx, account)
		if !ok {
			result.Credits++
			continue
		}
		result.Entries = append(result.Entries, entry)
	}
}

// convertTransaction converts an OFX debit into an entry.
// It reports false for credits, which are not expenses.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, account string) (Entry, bool) {
	// OFX uses negative amounts for debits
	amount := decimal.NewFromBigRat(&ofxTx.TrnAmt.Rat, 2)
	if !amount.IsNegative() {
		return Entry{}, false
	}

	title := p.extractMerchantName(ofxTx)
	trnType := ofxTx.TrnType.String()

	note := strings.TrimSpace(string(ofxTx.Memo))
	if ofxTx.CheckNum != "" {
		note = strings.TrimSpace(fmt.Sprintf("check %s %s", ofxTx.CheckNum, note))
	}

	posted := ofxTx.DtPosted.Time
	return Entry{
		Draft: model.Expense{
			Title:    title,
			Amount:   amount.Neg(),
			Category: string(p.categorize(title, trnType)),
			Date:     time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.Local),
			Note:     note,
		},
		FitID:   string(ofxTx.FiTID),
		Account: account,
		Type:    trnType,
	}, true
}

// extractMerchantName tries to get a clean merchant name from OFX data.
func (p *Parser) extractMerchantName(tx ofxgo.Transaction) string {
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := string(tx.Name)
	if tx.Memo != "" && isGenericDescription(name) {
		name = string(tx.Memo)
	}
	name = strings.TrimSpace(name)

	prefixes := []string{
		"POS PURCHASE ",
		"PURCHASE AUTHORIZED ON ",
		"DEBIT CARD PURCHASE ",
		"ACH DEBIT ",
		"CHECK CARD ",
		"VISA PURCHASE ",
		"MC PURCHASE ",
		"DEBIT PURCHASE ",
	}
	for _, prefix := range prefixes {
		if strings.HasPrefix(strings.ToUpper(name), prefix) {
			name = name[len(prefix):]
			break
		}
	}

	// Leading "MM/DD " posting dates
	if len(name) > 5 && name[2] == '/' && name[5] == ' ' {
		name = strings.TrimSpace(name[6:])
	}

	return name
}

func isGenericDescription(name string) bool {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "DEBIT", "CREDIT", "PURCHASE", "PAYMENT", "POS TRANSACTION", "CARD PURCHASE":
		return true
	}
	return false
}
