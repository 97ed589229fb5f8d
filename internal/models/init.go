package models

import (
	"strings"

	"github.com/apparel-shop/internal/constants"
	"github.com/apparel-shop/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

const defaultAdminPassword = "admin123"

// DefaultStoreSeed 默认店铺登记参数
type DefaultStoreSeed struct {
	ID             string
	Name           string
	PaymentStoreID string
	Currency       string
}

// InitDefaultStore 登记默认店铺（已存在时跳过）
func InitDefaultStore(seed DefaultStoreSeed) error {
	storeID := strings.TrimSpace(seed.ID)
	if storeID == "" {
		return nil
	}
	var count int64
	if err := DB.Model(&Store{}).Where("id = ?", storeID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	currency := strings.ToUpper(strings.TrimSpace(seed.Currency))
	if currency == "" {
		currency = constants.DefaultCurrency
	}
	store := Store{
		ID:              storeID,
		Name:            strings.TrimSpace(seed.Name),
		PaymentStoreID:  strings.TrimSpace(seed.PaymentStoreID),
		DefaultCurrency: currency,
		IsActive:        true,
	}
	if err := DB.Create(&store).Error; err != nil {
		return err
	}
	logger.Infow("default_store_registered", "store_id", storeID)
	return nil
}

// InitDefaultAdmin 初始化默认管理员账号（仅在没有任何管理员时创建）
func InitDefaultAdmin(username, password, storeID string) error {
	var count int64
	if err := DB.Model(&Admin{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	if strings.TrimSpace(storeID) == "" {
		logger.Warnw("default_admin_skipped", "reason", "store_id_missing")
		return nil
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = defaultAdminPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := Admin{
		Username:     username,
		PasswordHash: string(hash),
		StoreID:      storeID,
		Role:         constants.RoleStoreOwner,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == defaultAdminPassword {
		logger.Warnw("default_admin_created_with_default_password", "username", username, "store_id", storeID)
	} else {
		logger.Infow("default_admin_created", "username", username, "store_id", storeID)
	}
	return nil
}
