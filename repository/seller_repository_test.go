package repository_test

import (
	"context"
	"testing"

	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/models"
	"github.com/H-N-S-Abayawardhana/Multi-Vender-Marketplace-MERN-sub000/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

const sellerNS = "marketplace.sellerrequests"

func sampleApplication(status models.ApplicationStatus) *models.SellerApplication {
	return &models.SellerApplication{
		ID:           primitive.NewObjectID(),
		PersonalInfo: models.PersonalInfo{FullName: "Ann Perera", Email: "ann@example.com"},
		BusinessInfo: models.BusinessInfo{BusinessName: "Ann Crafts", TaxID: "T-1", RegistrationNumber: "R-1"},
		Status:       status,
	}
}

func TestSellerRepository_Create(t *testing.T) {
	mt := newMock(t)

	mt.Run("defaults to pending", func(mt *mtest.T) {
		mt.AddMockResponses(mtest.CreateSuccessResponse())
		repo := repository.NewMongoSellerRepository(mt.DB)

		app := &models.SellerApplication{PersonalInfo: models.PersonalInfo{Email: "ann@example.com"}}
		require.NoError(mt, repo.Create(context.Background(), app))
		assert.Equal(mt, models.ApplicationPending, app.Status)
	})

	mt.Run("duplicate tax id", func(mt *mtest.T) {
		mt.AddMockResponses(duplicateKey())
		repo := repository.NewMongoSellerRepository(mt.DB)

		err := repo.Create(context.Background(), sampleApplication(""))
		assert.ErrorIs(mt, err, repository.ErrDuplicate)
	})
}

func TestSellerRepository_Decide(t *testing.T) {
	mt := newMock(t)

	mt.Run("pending application", func(mt *mtest.T) {
		mt.AddMockResponses(findAndModify(toDoc(mt, sampleApplication(models.ApplicationApproved))))
		repo := repository.NewMongoSellerRepository(mt.DB)

		got, err := repo.Decide(context.Background(), "ann@example.com", models.ApplicationApproved)

		require.NoError(mt, err)
		assert.Equal(mt, models.ApplicationApproved, got.Status)
	})

	mt.Run("already decided", func(mt *mtest.T) {
		mt.AddMockResponses(
			findAndModify(nil),
			cursor(sellerNS, toDoc(mt, sampleApplication(models.ApplicationRejected))),
		)
		repo := repository.NewMongoSellerRepository(mt.DB)

		_, err := repo.Decide(context.Background(), "ann@example.com", models.ApplicationApproved)
		assert.ErrorIs(mt, err, repository.ErrConflict)
	})

	mt.Run("no application", func(mt *mtest.T) {
		mt.AddMockResponses(findAndModify(nil), cursor(sellerNS))
		repo := repository.NewMongoSellerRepository(mt.DB)

		_, err := repo.Decide(context.Background(), "nobody@example.com", models.ApplicationApproved)
		assert.ErrorIs(mt, err, repository.ErrNotFound)
	})
}
