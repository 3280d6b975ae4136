package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"testing"

	"plateada-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTransactions(t *testing.T) {
	setupTestDB(t)
	user, actor := registerUser(t, models.RoleClient)
	other, _ := registerUser(t, models.RoleClient)

	for _, amount := range []int{1, 2, 3} {
		_, err := PurchaseCredits(actor, amount)
		require.NoError(t, err)
	}

	all, total, err := FindTransactions(TransactionFilter{UserID: user.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, all, 4)
	assert.Equal(t, 3, all[0].Amount)
	assert.Equal(t, models.TransactionTypeWelcome, all[3].Type)

	page, total, err := FindTransactions(TransactionFilter{UserID: user.ID, Page: 2, Limit: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(4), total)
	require.Len(t, page, 1)
	assert.Equal(t, models.TransactionTypeWelcome, page[0].Type)

	purchase := models.TransactionTypePurchase
	purchases, total, err := FindTransactions(TransactionFilter{UserID: user.ID, Type: &purchase})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	for _, row := range purchases {
		assert.Equal(t, user.ID, row.UserID)
		assert.Equal(t, purchase, row.Type)
	}

	others, total, err := FindTransactions(TransactionFilter{UserID: other.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, other.ID, others[0].UserID)

	bogus := models.TransactionType("gift")
	_, _, err = FindTransactions(TransactionFilter{UserID: user.ID, Type: &bogus})
	assert.ErrorIs(t, err, ErrValidation)
	_, _, err = FindTransactions(TransactionFilter{})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGenerateTransactionCSV(t *testing.T) {
	setupTestDB(t)
	_, clientActor, _, _, session := newSession(t)

	rows, _, err := FindTransactions(TransactionFilter{UserID: clientActor.UserID})
	require.NoError(t, err)

	data, err := GenerateTransactionCSV(rows)
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "Balance After", records[0][5])

	charge := records[1]
	assert.Equal(t, string(models.TransactionTypeSessionCharge), charge[3])
	assert.Equal(t, "-1", charge[4])
	assert.Equal(t, "2", charge[5])
	assert.Equal(t, rows[0].Hash, charge[8])
	assert.Equal(t, fmt.Sprint(session.ID), charge[6])
	assert.Contains(t, charge[7], "test-request")
	assert.Equal(t, "", records[2][6])
}
