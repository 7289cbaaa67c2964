// Package fixtures provides the in-memory store and seed data shared by the
// service and API tests.
package fixtures

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	infrarepo "github.com/fidelys/loyalty/infra/repository"
	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/repository"
)

// NewUoW opens a fresh in-memory SQLite database, runs the migrations and
// returns a unit of work bound to it. Each call gets its own database.
func NewUoW(t *testing.T) repository.UnitOfWork {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)
	require.NoError(t, infrarepo.Migrate(db))
	return infrarepo.NewUoW(db)
}

// Password is the plaintext behind PasswordHash in every seeded account.
const Password = "secret123"

// PasswordHash hashes the shared test password at the lowest bcrypt cost.
func PasswordHash(t *testing.T) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)
	return string(hash)
}

func SeedShop(t *testing.T, uow repository.UnitOfWork, name string) *domain.Shop {
	t.Helper()
	shop := &domain.Shop{Name: name}
	require.NoError(t, uow.Shops().Create(t.Context(), shop))
	return shop
}

func SeedCaisse(t *testing.T, uow repository.UnitOfWork, shopID uint) *domain.Caisse {
	t.Helper()
	caisse := &domain.Caisse{
		FirstName: "Awa",
		LastName:  "Diop",
		Phone:     "77" + uuid.NewString()[:8],
		Code:      uuid.NewString()[:8],
		Password:  PasswordHash(t),
		ShopID:    shopID,
	}
	require.NoError(t, uow.Caisses().Create(t.Context(), caisse))
	return caisse
}

// SeedUser creates a customer together with the balance, threshold and wallet
// rows registration would have created.
func SeedUser(t *testing.T, uow repository.UnitOfWork, phone string) *domain.User {
	t.Helper()
	user := &domain.User{
		FirstName:      "Moussa",
		LastName:       "Ndiaye",
		Phone:          phone,
		Barcode:        uuid.NewString(),
		SponsoringCode: uuid.NewString()[:7],
		Password:       PasswordHash(t),
	}
	require.NoError(t, uow.Users().Create(t.Context(), user))
	require.NoError(t, uow.Cashbacks().Create(t.Context(), &domain.Cashback{UserID: user.ID}))
	require.NoError(t, uow.Thresholds().Create(t.Context(), &domain.UserCashback{
		UserID: user.ID,
		Amount: domain.DefaultVoucherThreshold,
	}))
	require.NoError(t, uow.Sponsorings().Create(t.Context(), &domain.UserSponsoring{UserID: user.ID}))
	return user
}

func SeedAdmin(t *testing.T, uow repository.UnitOfWork, email string) *domain.Admin {
	t.Helper()
	admin := &domain.Admin{
		FirstName: "Fatou",
		LastName:  "Sall",
		Email:     email,
		Password:  PasswordHash(t),
	}
	require.NoError(t, uow.Admins().Create(t.Context(), admin))
	return admin
}

// SeedSettings installs both configuration singletons with the given values.
func SeedSettings(t *testing.T, uow repository.UnitOfWork, s domain.Setting, sp domain.SettingSponsoring) {
	t.Helper()
	require.NoError(t, uow.Settings().Save(t.Context(), &s))
	require.NoError(t, uow.Settings().SaveSponsoring(t.Context(), &sp))
}
