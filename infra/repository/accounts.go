package repository

import (
	"context"
	"errors"

	"github.com/fidelys/loyalty/pkg/domain"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Get(ctx context.Context, id uint) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).First(&u, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return r.getBy(ctx, "phone = ?", phone)
}

func (r *userRepository) GetByBarcode(ctx context.Context, barcode string) (*domain.User, error) {
	return r.getBy(ctx, "barcode = ?", barcode)
}

func (r *userRepository) GetBySponsoringCode(ctx context.Context, code string) (*domain.User, error) {
	return r.getBy(ctx, "sponsoring_code = ?", code)
}

func (r *userRepository) getBy(ctx context.Context, query string, arg any) (*domain.User, error) {
	var u domain.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *userRepository) UpdatePushToken(ctx context.Context, id uint, token string) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("token", token).Error
}

func (r *userRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&domain.User{}).
		Where("id = ?", id).
		Update("phone", gorm.Expr("? || phone", domain.DeletedPhonePrefix)).Error
}

type adminRepository struct {
	db *gorm.DB
}

func (r *adminRepository) Get(ctx context.Context, id uint) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.db.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) GetByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	var a domain.Admin
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&a).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAdminNotFound
		}
		return nil, err
	}
	return &a, nil
}

func (r *adminRepository) Create(ctx context.Context, a *domain.Admin) error {
	return r.db.WithContext(ctx).Create(a).Error
}

type caisseRepository struct {
	db *gorm.DB
}

func (r *caisseRepository) Get(ctx context.Context, id uint) (*domain.Caisse, error) {
	var c domain.Caisse
	if err := r.db.WithContext(ctx).First(&c, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCaisseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *caisseRepository) GetByPhone(ctx context.Context, phone string) (*domain.Caisse, error) {
	return r.getBy(ctx, "phone = ?", phone)
}

func (r *caisseRepository) GetByCode(ctx context.Context, code string) (*domain.Caisse, error) {
	return r.getBy(ctx, "code = ?", code)
}

func (r *caisseRepository) getBy(ctx context.Context, query string, arg any) (*domain.Caisse, error) {
	var c domain.Caisse
	if err := r.db.WithContext(ctx).Where(query, arg).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCaisseNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *caisseRepository) Create(ctx context.Context, c *domain.Caisse) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *caisseRepository) UpdatePassword(ctx context.Context, id uint, hash string) error {
	return r.db.WithContext(ctx).Model(&domain.Caisse{}).
		Where("id = ?", id).
		Update("password", hash).Error
}

func (r *caisseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&domain.Caisse{}, id).Error
}

func (r *caisseRepository) ListByShop(ctx context.Context, shopID uint) ([]domain.Caisse, error) {
	var caisses []domain.Caisse
	err := r.db.WithContext(ctx).
		Where("shop_id = ?", shopID).
		Find(&caisses).Error
	return caisses, err
}

type shopRepository struct {
	db *gorm.DB
}

func (r *shopRepository) Get(ctx context.Context, id uint) (*domain.Shop, error) {
	var s domain.Shop
	if err := r.db.WithContext(ctx).First(&s, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrShopNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *shopRepository) Create(ctx context.Context, s *domain.Shop) error {
	return r.db.WithContext(ctx).Create(s).Error
}
