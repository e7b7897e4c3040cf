package shortcode

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	// Charset 包含用于生成短码的所有字符
	Charset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	// DefaultCodeLength 是默认的短码长度
	DefaultCodeLength = 6
	// MaxAttempts 是生成唯一短码的最大尝试次数，超过即视为服务端故障
	MaxAttempts = 10
)

// ErrAttemptsExhausted 表示连续 MaxAttempts 次生成的短码都发生冲突
// 正常情况下几乎不可能触发，出现说明熵耗尽或存储异常
var ErrAttemptsExhausted = errors.New("短码生成尝试次数已用尽")

// Store 是唯一性检查所依赖的记录存储
type Store interface {
	CodeExists(ctx context.Context, code string) (bool, error)
}

// Generator 负责生成唯一短码并拼接完整短链接
// BaseURL 在构造时注入，不读全局配置
type Generator struct {
	store   Store
	baseURL string
	length  int
	logger  *zap.SugaredLogger
}

// NewGenerator 创建一个新的短码生成器实例
func NewGenerator(store Store, baseURL string, length int, logger *zap.SugaredLogger) *Generator {
	if length <= 0 {
		length = DefaultCodeLength
	}
	return &Generator{
		store:   store,
		baseURL: baseURL,
		length:  length,
		logger:  logger.Named("shortcode_generator"),
	}
}

// UniqueCode 生成一个在记录存储中不存在的短码
// 预查询只是为了避开明显冲突，插入时的唯一索引才是最终保证；
// 调用方在插入撞到唯一索引时应重新调用本方法重试
func (g *Generator) UniqueCode(ctx context.Context) (string, error) {
	for i := 0; i < MaxAttempts; i++ {
		code, err := Generate(g.length)
		if err != nil {
			return "", err
		}

		exists, err := g.store.CodeExists(ctx, code)
		if err != nil {
			// 在不确定的情况下，保守地认为它存在以避免冲突
			g.logger.Errorf("查询短码是否存在时出错: %v", err)
			continue
		}
		if !exists {
			return code, nil
		}
	}

	g.logger.Warnf("已尝试 %d 次生成短码，但均存在冲突。", MaxAttempts)
	return "", ErrAttemptsExhausted
}

// ShortURL 用配置的基础地址拼出完整短链接
func (g *Generator) ShortURL(code string) string {
	return BuildShortURL(g.baseURL, code)
}

// Generate 使用加密安全的随机数生成器生成一个给定长度的短码
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultCodeLength
	}
	b := make([]byte, length)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(Charset))))
		if err != nil {
			return "", err
		}
		b[i] = Charset[num.Int64()]
	}
	return string(b), nil
}

// BuildShortURL 把基础地址和短码拼成完整短链接
// 只去掉基础地址末尾的斜杠，不做其它处理，保证不出现双斜杠
func BuildShortURL(baseURL, code string) string {
	return strings.TrimRight(baseURL, "/") + "/" + code
}

// HashIP 对原始 IP 做单向哈希，持久化时不落原始 IP
// 纯文本哈希，不校验 IP 格式，同样的输入永远得到同样的摘要
func HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip))
	return hex.EncodeToString(sum[:])
}

// GormStore 基于数据库唯一索引所在表实现 Store
type GormStore struct {
	db *gorm.DB
}

// NewGormStore 创建数据库存储适配器
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// CodeExists 检查给定的短码是否已在数据库中存在
func (s *GormStore) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Unscoped().Table("projects").
		Where("short_code = ?", code).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
