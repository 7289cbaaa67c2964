package repository

import (
	"context"
	"errors"
	"time"

	"github.com/fidelys/loyalty/pkg/domain"
	"github.com/fidelys/loyalty/pkg/repository"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *transactionRepository) Save(ctx context.Context, t *domain.Transaction) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *transactionRepository) ExistsTicket(ctx context.Context, number string, typ domain.TransactionType) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("ticket_number = ? AND transaction_type = ?", number, typ).
		Count(&count).Error
	return count > 0, err
}

func (r *transactionRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *transactionRepository) LastByUser(ctx context.Context, userID uint) (*domain.Transaction, error) {
	var t domain.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepository) SumValidatedPurchases(ctx context.Context, userID uint) (float64, error) {
	var total float64
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select("COALESCE(SUM(ticket_amount), 0)").
		Where("user_id = ? AND transaction_type = ? AND state = ?",
			userID, domain.TransactionPurchase, domain.StateValidated).
		Scan(&total).Error
	return total, err
}

func (r *transactionRepository) PendingVoucher(ctx context.Context, userID uint) (*domain.Transaction, error) {
	var t domain.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND transaction_type = ? AND state = ?",
			userID, domain.TransactionVoucher, domain.StatePending).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

func (r *transactionRepository) RedeemPendingVoucher(ctx context.Context, userID uint, red repository.VoucherRedemption) (int64, error) {
	res := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Where("user_id = ? AND transaction_type = ? AND state = ?",
			userID, domain.TransactionVoucher, domain.StatePending).
		Updates(map[string]any{
			"ticket_cashback_type": domain.CashbackDebit,
			"payment_type":         1,
			"shop_id":              red.ShopID,
			"caisse_id":            red.CaisseID,
			"ticket_date":          red.TicketDate,
			"ticket_number":        red.TicketNumber,
			"ticket_amount":        red.TicketAmount,
			"ticket_cashback":      red.TicketCashback,
			"state":                domain.StateValidated,
		})
	return res.RowsAffected, res.Error
}

func (r *transactionRepository) ListVouchersByUser(ctx context.Context, userID uint, states []domain.TransactionState) ([]domain.Transaction, error) {
	var ts []domain.Transaction
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND transaction_type = ? AND state IN ?",
			userID, domain.TransactionVoucher, states).
		Order("created_at DESC").
		Find(&ts).Error
	return ts, err
}

func (r *transactionRepository) ListVouchersByState(ctx context.Context, state domain.TransactionState) ([]repository.VoucherWithUser, error) {
	var rows []repository.VoucherWithUser
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select(`users.first_name, users.last_name, users.phone,
			transactions.code, transactions.voucher_amount AS amount,
			transactions.expiration_date`).
		Joins("JOIN users ON users.id = transactions.user_id").
		Where("transactions.transaction_type = ? AND transactions.state = ?",
			domain.TransactionVoucher, state).
		Scan(&rows).Error
	return rows, err
}

func (r *transactionRepository) ListConsumedVouchers(ctx context.Context, shopID uint, from, to time.Time) ([]repository.ConsumedVoucher, error) {
	var rows []repository.ConsumedVoucher
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select(`transactions.updated_at, transactions.ticket_number, transactions.voucher_amount,
			u.first_name AS user_first_name, u.last_name AS user_last_name, u.phone AS user_phone,
			c.first_name AS caisse_first_name, c.last_name AS caisse_last_name, c.phone AS caisse_phone,
			COALESCE(s.name, '') AS shop_name`).
		Joins("JOIN users u ON u.id = transactions.user_id").
		Joins("LEFT JOIN caisses c ON c.id = transactions.caisse_id").
		Joins("LEFT JOIN shops s ON s.id = transactions.shop_id").
		Where(`transactions.transaction_type = ? AND transactions.state = ?
			AND transactions.shop_id = ? AND transactions.created_at BETWEEN ? AND ?`,
			domain.TransactionVoucher, domain.StateValidated, shopID, from, to).
		Order("transactions.updated_at DESC").
		Scan(&rows).Error
	return rows, err
}

func (r *transactionRepository) AggregateConsumedVouchers(ctx context.Context, shopID *uint, from, to time.Time) (*repository.ConsumedVoucherStats, error) {
	q := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select(`COUNT(transactions.id) AS total_transactions,
			COALESCE(SUM(transactions.voucher_amount), 0) AS total_amount,
			s.name AS shop_name`).
		Joins("JOIN shops s ON s.id = transactions.shop_id").
		Where("transactions.transaction_type = ? AND transactions.state = ? AND transactions.created_at BETWEEN ? AND ?",
			domain.TransactionVoucher, domain.StateValidated, from, to).
		Group("s.id, s.name")
	if shopID != nil {
		q = q.Where("s.id = ?", *shopID)
	}

	var rows []repository.ConsumedVoucherStats
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return &repository.ConsumedVoucherStats{ShopName: "N/A"}, nil
	}
	return &rows[0], nil
}

func (r *transactionRepository) HistoryByUser(ctx context.Context, userID uint) ([]repository.HistoryEntry, error) {
	var rows []repository.HistoryEntry
	err := r.db.WithContext(ctx).Model(&domain.Transaction{}).
		Select(`transactions.created_at, COALESCE(s.name, '') AS shop,
			transactions.ticket_amount AS amount, transactions.ticket_cashback AS cashback,
			transactions.voucher_amount, transactions.ticket_cashback_type AS type,
			transactions.cagnotte`).
		Joins("LEFT JOIN shops s ON s.id = transactions.shop_id").
		Where("transactions.user_id = ? AND transactions.state = ?", userID, domain.StateValidated).
		Order("transactions.created_at DESC").
		Scan(&rows).Error
	return rows, err
}
