package services_test

import (
	"context"
	"testing"

	"github.com/hdtransit/erp_backend/internal/apperrors"
	"github.com/hdtransit/erp_backend/internal/core/domain"
	"github.com/hdtransit/erp_backend/internal/core/services"
	"github.com/hdtransit/erp_backend/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type InventoryServiceTestSuite struct {
	suite.Suite
	mockInventoryRepo *MockInventoryRepository
	service           *services.InventoryService
}

func (suite *InventoryServiceTestSuite) SetupTest() {
	suite.mockInventoryRepo = new(MockInventoryRepository)
	suite.service = services.NewInventoryService(suite.mockInventoryRepo, staticNormalizer(), accessFor(fixtureUsers()))
}

func (suite *InventoryServiceTestSuite) TestCreateItem_NormalizesUnitPrice() {
	ctx := context.Background()
	req := dto.CreateInventoryItemRequest{
		Name:      " Brake pads ",
		Category:  "Parts",
		Quantity:  4,
		UnitPrice: decimal.NewFromInt(25),
		Currency:  "usd",
	}
	suite.mockInventoryRepo.On("SaveItem", ctx, mock.MatchedBy(func(item domain.InventoryItem) bool {
		return item.CompanyID == 1 && item.Name == "Brake pads" && item.CreatedBy == memberID
	})).Return(nil).Once()

	item, err := suite.service.CreateItem(ctx, memberID, req)

	suite.Require().NoError(err)
	suite.Equal("USD", item.Currency)
	suite.Equal("253.00", item.UnitPriceBase.Round(2).StringFixed(2))
	suite.Equal("1012.00", item.ValueBase().Round(2).StringFixed(2))
	suite.mockInventoryRepo.AssertExpectations(suite.T())
}

func (suite *InventoryServiceTestSuite) TestCreateItem_RejectsNegativePrice() {
	_, err := suite.service.CreateItem(context.Background(), memberID, dto.CreateInventoryItemRequest{
		Name:      "Tyre",
		UnitPrice: decimal.NewFromInt(-1),
	})

	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "SaveItem", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestUpdateItem_RevaluesOnCurrencyChange() {
	ctx := context.Background()
	stored := &domain.InventoryItem{
		ItemID: "item-1", CompanyID: 1, Name: "Tyre", Quantity: 2,
		UnitPrice: decimal.NewFromInt(100), Currency: "MAD", UnitPriceBase: decimal.NewFromInt(100),
	}
	eur := "EUR"
	suite.mockInventoryRepo.On("FindItemByID", ctx, "item-1").Return(stored, nil).Once()
	suite.mockInventoryRepo.On("UpdateItem", ctx, mock.AnythingOfType("domain.InventoryItem")).Return(nil).Once()

	item, err := suite.service.UpdateItem(ctx, memberID, "item-1", dto.UpdateInventoryItemRequest{Currency: &eur})

	suite.Require().NoError(err)
	suite.Equal("EUR", item.Currency)
	suite.Equal("1105.00", item.UnitPriceBase.Round(2).StringFixed(2))
	suite.Equal(memberID, item.LastUpdatedBy)
}

func (suite *InventoryServiceTestSuite) TestUpdateItem_QuantityOnlyKeepsValuation() {
	ctx := context.Background()
	stored := &domain.InventoryItem{
		ItemID: "item-1", CompanyID: 1, Name: "Tyre", Quantity: 2,
		UnitPrice: decimal.NewFromInt(10), Currency: "USD", UnitPriceBase: decimal.RequireFromString("99.99"),
	}
	qty := int64(7)
	suite.mockInventoryRepo.On("FindItemByID", ctx, "item-1").Return(stored, nil).Once()
	suite.mockInventoryRepo.On("UpdateItem", ctx, mock.AnythingOfType("domain.InventoryItem")).Return(nil).Once()

	item, err := suite.service.UpdateItem(ctx, memberID, "item-1", dto.UpdateInventoryItemRequest{Quantity: &qty})

	suite.Require().NoError(err)
	suite.Equal(int64(7), item.Quantity)
	suite.Equal("99.99", item.UnitPriceBase.String())
}

func (suite *InventoryServiceTestSuite) TestDeleteItem_OtherCompanyIsHidden() {
	ctx := context.Background()
	suite.mockInventoryRepo.On("FindItemByID", ctx, "item-9").
		Return(&domain.InventoryItem{ItemID: "item-9", CompanyID: 2}, nil).Once()

	err := suite.service.DeleteItem(ctx, memberID, "item-9")

	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.mockInventoryRepo.AssertNotCalled(suite.T(), "DeleteItem", mock.Anything, mock.Anything)
}

func (suite *InventoryServiceTestSuite) TestListItems_EmptyIsNotNil() {
	ctx := context.Background()
	suite.mockInventoryRepo.On("ListItems", ctx, int64(1)).Return(nil, nil).Once()

	items, err := suite.service.ListItems(ctx, memberID, nil)

	suite.Require().NoError(err)
	suite.NotNil(items)
	suite.Empty(items)
}

func TestInventoryServiceTestSuite(t *testing.T) {
	suite.Run(t, new(InventoryServiceTestSuite))
}
