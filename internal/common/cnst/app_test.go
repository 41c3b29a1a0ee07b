package cnst

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, c.Valid())
	}
	assert.False(t, Category("travel").Valid())
	assert.False(t, Category("").Valid())
}

func TestLeadStatusValid(t *testing.T) {
	assert.True(t, LeadStatusNew.Valid())
	assert.True(t, LeadStatusContacted.Valid())
	assert.True(t, LeadStatusSignedUp.Valid())
	assert.False(t, LeadStatus("lost").Valid())
}

func TestLedgerConstants(t *testing.T) {
	assert.Equal(t, 50, PointsPerRedemption)
	assert.Equal(t, 40, AssumedBasketValue)
	assert.Equal(t, 50, PromptHistoryLimit)
}
