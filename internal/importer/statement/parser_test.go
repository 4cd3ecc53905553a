package statement_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/npereira/centavo/internal/importer/statement"
)

func TestParser_Parse(t *testing.T) {
	input := strings.Join([]string{
		"Exported 2024-03-01",
		"",
		"date;section;amount;payment_mode;note",
		"2024-01-05;Food;-12.50;card;lunch",
		"2024-01-06;Income;1500,00;transfer;",
		"2024-01-07;Transport;-3,20;card;bus",
		";;;;",
		"Total;;1484.30;;",
	}, "\n")

	params, err := statement.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 3)

	assert.Equal(t, "Food", params[0].Section)
	assert.Equal(t, int64(-1250), params[0].Amount)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), params[0].Date)
	assert.Equal(t, "card", params[0].PaymentMode)
	require.NotNil(t, params[0].Note)
	assert.Equal(t, "lunch", *params[0].Note)

	assert.Equal(t, "Income", params[1].Section)
	assert.Equal(t, int64(150000), params[1].Amount)
	assert.Nil(t, params[1].Note)

	assert.Equal(t, int64(-320), params[2].Amount)
}

func TestParser_Parse_EuropeanDates(t *testing.T) {
	input := strings.Join([]string{
		"date;section;amount",
		"05-01-2024;Food;-10,00",
		"06/01/2024;Food;-20,00",
	}, "\n")

	params, err := statement.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC), params[0].Date)
	assert.Equal(t, time.Date(2024, 1, 6, 0, 0, 0, 0, time.UTC), params[1].Date)
}

func TestParser_Parse_ThousandsSeparators(t *testing.T) {
	input := strings.Join([]string{
		"date;section;amount",
		"2024-01-05;Rent;-1.234,56",
		"2024-01-06;Income;2,000.00",
	}, "\n")

	params, err := statement.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, int64(-123456), params[0].Amount)
	assert.Equal(t, int64(200000), params[1].Amount)
}

func TestParser_Parse_MissingHeader(t *testing.T) {
	input := "just;some;cells\n1;2;3\n"

	_, err := statement.NewParser().Parse(strings.NewReader(input))
	assert.Error(t, err)
}

func TestParser_Parse_MissingSection(t *testing.T) {
	input := strings.Join([]string{
		"date;section;amount",
		"2024-01-05;;-10.00",
	}, "\n")

	_, err := statement.NewParser().Parse(strings.NewReader(input))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "missing section")
}

func TestParser_Parse_BadAmount(t *testing.T) {
	input := strings.Join([]string{
		"date;section;amount",
		"2024-01-05;Food;abc",
	}, "\n")

	_, err := statement.NewParser().Parse(strings.NewReader(input))
	assert.Error(t, err)
}

func TestParser_Parse_ZeroAmountSkipped(t *testing.T) {
	input := strings.Join([]string{
		"date;section;amount",
		"2024-01-05;Food;0,00",
		"2024-01-06;Food;-5,00",
	}, "\n")

	params, err := statement.NewParser().Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, params, 1)
	assert.Equal(t, int64(-500), params[0].Amount)
}
