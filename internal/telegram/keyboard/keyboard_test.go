package keyboard

import (
	"testing"

	"github.com/futig/fund-faq/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCallback(t *testing.T) {
	cb, err := ParseCallback("field:hdfc-mid-cap-fund|exit_load")
	require.NoError(t, err)
	assert.Equal(t, ActionField, cb.Action)

	slug, field, err := SplitFieldValue(cb.Value)
	require.NoError(t, err)
	assert.Equal(t, "hdfc-mid-cap-fund", slug)
	assert.Equal(t, "exit_load", field)

	_, err = ParseCallback("garbage")
	assert.Error(t, err)
	_, _, err = SplitFieldValue("no-separator")
	assert.Error(t, err)
}

func TestFieldsKeyboard(t *testing.T) {
	kb := NewBuilder().FieldsKeyboard(entity.Scheme{
		Name:   "HDFC Mid Cap Fund",
		Fields: []entity.FieldName{entity.FieldExpenseRatio, entity.FieldExitLoad, entity.FieldNAV, entity.FieldOther},
	})

	require.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, "NAV", kb.InlineKeyboard[1][0].Text)
	require.NotNil(t, kb.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "field:hdfc-mid-cap-fund|exit_load", *kb.InlineKeyboard[0][1].CallbackData)
}

func TestSchemesKeyboard(t *testing.T) {
	kb := NewBuilder().SchemesKeyboard([]entity.Scheme{{Name: "HDFC Large Cap Fund"}, {Name: "HDFC Mid Cap Fund"}})

	require.Len(t, kb.InlineKeyboard, 2)
	assert.Equal(t, "scheme:hdfc-large-cap-fund", *kb.InlineKeyboard[0][0].CallbackData)
}
