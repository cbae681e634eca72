package price

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type HistoryTestSuite struct {
	suite.Suite
}

func TestHistorySuite(t *testing.T) {
	suite.Run(t, new(HistoryTestSuite))
}

func (suite *HistoryTestSuite) TestPushKeepsInsertionOrder() {
	h := NewHistory(5)
	for i := 1; i <= 3; i++ {
		h.Push(decimal.NewFromInt(int64(i)))
	}

	suite.Equal(3, h.Len())
	values := h.Values()
	suite.True(values[0].Equal(decimal.NewFromInt(1)))
	suite.True(values[2].Equal(decimal.NewFromInt(3)))
}

func (suite *HistoryTestSuite) TestEvictsOldestOnOverflow() {
	h := NewHistory(3)
	for i := 1; i <= 5; i++ {
		h.Push(decimal.NewFromInt(int64(i)))
	}

	values := h.Values()
	suite.Len(values, 3)
	suite.True(values[0].Equal(decimal.NewFromInt(3)))
	suite.True(values[1].Equal(decimal.NewFromInt(4)))
	suite.True(values[2].Equal(decimal.NewFromInt(5)))
}

func (suite *HistoryTestSuite) TestValuesIsACopy() {
	h := NewHistory(3)
	h.Push(decimal.NewFromInt(1))

	values := h.Values()
	values[0] = decimal.NewFromInt(99)

	suite.True(h.Values()[0].Equal(decimal.NewFromInt(1)))
}

func (suite *HistoryTestSuite) TestDefaultCapacity() {
	suite.Equal(DefaultHistoryCapacity, NewHistory(0).Capacity())
}
