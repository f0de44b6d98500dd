package store

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"okinoko_vault/sdk"
)

// KVEntry is one program state key. Keys carry raw prefix bytes, hence []byte.
type KVEntry struct {
	StoreKey   []byte `gorm:"primaryKey;size:255"`
	StoreValue []byte
	UpdatedAt  time.Time
}

func (KVEntry) TableName() string { return "vault_kv" }

// TxReceipt journals every executed transaction, failed ones included.
type TxReceipt struct {
	ID        uint   `gorm:"primaryKey"`
	TxID      string `gorm:"uniqueIndex;size:128"`
	Action    string `gorm:"size:32;index"`
	Sender    string `gorm:"size:128;index"`
	Payload   string
	Timestamp int64
	Success   bool
	Ret       string
	Code      string `gorm:"size:32"`
	Err       string
	Logs      string // newline separated event lines
	CreatedAt time.Time
}

func (TxReceipt) TableName() string { return "vault_tx_receipts" }

// Gorm is the SQL backed Backend. Apply runs inside one database transaction.
type Gorm struct {
	db *gorm.DB
}

func NewGorm(db *gorm.DB) *Gorm {
	return &Gorm{db: db}
}

// AutoMigrate creates the kv and receipt tables.
func (g *Gorm) AutoMigrate() error {
	return g.db.AutoMigrate(&KVEntry{}, &TxReceipt{})
}

func (g *Gorm) Load(key string) (*string, error) {
	var row KVEntry
	err := g.db.Where("store_key = ?", []byte(key)).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load state key")
	}
	v := string(row.StoreValue)
	return &v, nil
}

// Apply refuses a receipt whose tx id is already journaled. The unique index
// catches writers racing on another connection.
func (g *Gorm) Apply(writes []sdk.Write, receipt *sdk.Receipt) error {
	journaled := receipt != nil && receipt.TxID != ""
	err := g.db.Transaction(func(tx *gorm.DB) error {
		if journaled {
			var n int64
			if err := tx.Model(&TxReceipt{}).Where("tx_id = ?", receipt.TxID).Count(&n).Error; err != nil {
				return errors.Wrap(err, "check receipt")
			}
			if n > 0 {
				return errors.Wrapf(sdk.ErrDuplicateReceipt, "%q", receipt.TxID)
			}
		}
		for _, w := range writes {
			if w.Delete {
				if err := tx.Where("store_key = ?", []byte(w.Key)).Delete(&KVEntry{}).Error; err != nil {
					return errors.Wrap(err, "delete state key")
				}
				continue
			}
			row := KVEntry{StoreKey: []byte(w.Key), StoreValue: []byte(w.Value)}
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "store_key"}},
				DoUpdates: clause.AssignmentColumns([]string{"store_value", "updated_at"}),
			}).Create(&row).Error
			if err != nil {
				return errors.Wrap(err, "upsert state key")
			}
		}
		if !journaled {
			return nil
		}
		return tx.Create(receiptRow(receipt)).Error
	})
	if journaled && errors.Is(err, gorm.ErrDuplicatedKey) {
		return errors.Wrapf(sdk.ErrDuplicateReceipt, "%q", receipt.TxID)
	}
	return errors.Wrap(err, "apply")
}

func (g *Gorm) Receipt(txID string) (*sdk.Receipt, error) {
	var row TxReceipt
	err := g.db.Where("tx_id = ?", txID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "load receipt")
	}
	return receiptFromRow(&row), nil
}

func receiptRow(r *sdk.Receipt) *TxReceipt {
	return &TxReceipt{
		TxID:      r.TxID,
		Action:    r.Action,
		Sender:    r.Sender.String(),
		Payload:   r.Payload,
		Timestamp: r.Timestamp,
		Success:   r.Success,
		Ret:       r.Ret,
		Code:      r.Code,
		Err:       r.Err,
		Logs:      strings.Join(r.Logs, "\n"),
	}
}

func receiptFromRow(row *TxReceipt) *sdk.Receipt {
	var logs []string
	if row.Logs != "" {
		logs = strings.Split(row.Logs, "\n")
	}
	return &sdk.Receipt{
		TxID:      row.TxID,
		Action:    row.Action,
		Sender:    sdk.Address(row.Sender),
		Payload:   row.Payload,
		Timestamp: row.Timestamp,
		Success:   row.Success,
		Ret:       row.Ret,
		Code:      row.Code,
		Err:       row.Err,
		Logs:      logs,
	}
}
