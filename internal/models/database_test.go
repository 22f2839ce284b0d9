package models_test

import (
	"github.com/finbooks/backend/internal/models"
	"github.com/google/uuid"
)

func (suite *TestSuiteStandard) TestResourceNotFoundMessage() {
	err := models.DB.First(&models.ChartAccount{}, "id = ?", uuid.New()).Error
	suite.Require().NotNil(err)
	suite.Assert().ErrorIs(err, models.ErrResourceNotFound)
	suite.Assert().Equal("there is no chart account matching your query", err.Error())
}

func (suite *TestSuiteStandard) TestGeneralErrorOnClosedDB() {
	suite.CloseDB()

	err := models.DB.Create(&models.RevenueSource{Name: "Consulting"}).Error
	suite.Assert().ErrorIs(err, models.ErrGeneral)
}

func (suite *TestSuiteStandard) TestConnectInvalidPath() {
	// Reconnect at the end so TearDownTest has a database to close
	defer func() {
		suite.SetupTest()
	}()

	err := models.Connect("/does/not/exist/database.db")
	suite.Assert().NotNil(err)
}

// Connect owns the foreign key pragma. Callers pass a bare file path, a DSN
// that already carries query parameters is rejected by the driver.
func (suite *TestSuiteStandard) TestConnectEnablesForeignKeys() {
	var enabled int
	err := models.DB.Raw("PRAGMA foreign_keys").Scan(&enabled).Error
	suite.Require().NoError(err)
	suite.Assert().Equal(1, enabled)
}
