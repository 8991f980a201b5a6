package source

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/kursadbilgin/bulk-notify/internal/domain"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// RecipientSource parses raw uploaded bytes into an ordered recipient
// list. Ordering is significant: it defines the send order.
type RecipientSource interface {
	Parse(data []byte) ([]domain.Recipient, error)
}

// FileSource content-sniffs uploads: CSV parse first, spreadsheet
// fallback, ErrParse when both fail. Header names are lower-cased and
// trimmed; name/email/phone are recognized, every other column is kept
// as a template variable.
type FileSource struct {
	logger *zap.Logger
}

func NewFileSource(logger *zap.Logger) *FileSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FileSource{logger: logger}
}

func (s *FileSource) Parse(data []byte) ([]domain.Recipient, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrParse)
	}

	recipients, csvErr := parseCSV(data)
	if csvErr == nil {
		return recipients, nil
	}

	recipients, xlsxErr := parseSpreadsheet(data)
	if xlsxErr == nil {
		return recipients, nil
	}

	s.logger.Debug("recipient file rejected",
		zap.NamedError("csvError", csvErr),
		zap.NamedError("spreadsheetError", xlsxErr),
	)
	return nil, fmt.Errorf("%w: file is neither CSV nor a spreadsheet", domain.ErrParse)
}

func parseCSV(data []byte) ([]domain.Recipient, error) {
	// Binary payloads (xlsx is a zip archive) must fall through to the
	// spreadsheet parser instead of degenerating into one-column CSV.
	if !utf8.Valid(data) || bytes.IndexByte(data, 0) >= 0 {
		return nil, fmt.Errorf("file is not text")
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("csv read failed: %w", err)
	}

	return rowsToRecipients(rows)
}

func parseSpreadsheet(data []byte) ([]domain.Recipient, error) {
	file, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("spreadsheet open failed: %w", err)
	}
	defer file.Close() //nolint:errcheck

	sheets := file.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := file.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("spreadsheet read failed: %w", err)
	}

	return rowsToRecipients(rows)
}

func rowsToRecipients(rows [][]string) ([]domain.Recipient, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("file has no header row")
	}

	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.ToLower(strings.TrimSpace(header))
	}

	recipients := make([]domain.Recipient, 0, len(rows)-1)
	for _, row := range rows[1:] {
		var r domain.Recipient
		for i, header := range headers {
			if header == "" || i >= len(row) {
				continue
			}
			value := strings.TrimSpace(row[i])

			switch header {
			case "name":
				r.Name = value
			case "email":
				r.Email = value
			case "phone":
				r.Phone = value
			default:
				if value == "" {
					continue
				}
				if r.Extra == nil {
					r.Extra = make(map[string]string)
				}
				r.Extra[header] = value
			}
		}
		recipients = append(recipients, r)
	}

	return recipients, nil
}
