package auth

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"hostpanel/backend/internal/domain"
	"hostpanel/backend/internal/storage"
)

var (
	// ErrInvalidEmail 无效的邮箱格式
	ErrInvalidEmail = errors.New("invalid email format")
	// ErrInvalidPassword 无效的密码
	ErrInvalidPassword = errors.New("invalid password")
	// ErrOperatorExists 操作员邮箱或用户名已存在
	ErrOperatorExists = errors.New("operator already exists")
	// ErrOperatorNotFound 操作员不存在
	ErrOperatorNotFound = errors.New("operator not found")
	// ErrInvalidCredentials 凭证无效
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrOperatorInactive 操作员已被禁用
	ErrOperatorInactive = errors.New("operator is inactive")
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Service 操作员认证服务
type Service struct {
	operators storage.OperatorRepository
}

// NewService 创建认证服务
func NewService(operators storage.OperatorRepository) *Service {
	return &Service{
		operators: operators,
	}
}

// CreateOperatorInput 创建操作员输入
type CreateOperatorInput struct {
	Email    string
	Password string
	Username string
	Role     domain.OperatorRole
}

// LoginInput 登录输入
type LoginInput struct {
	Identifier string
	Password   string
}

// CreateOperator 创建操作员账户
func (s *Service) CreateOperator(input CreateOperatorInput) (*domain.Operator, error) {
	// 验证邮箱格式
	if !ValidateEmail(input.Email) {
		return nil, ErrInvalidEmail
	}

	// 验证密码强度
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}

	// 检查邮箱与用户名是否已存在
	if op, err := s.operators.GetOperatorByEmail(strings.ToLower(input.Email)); err == nil && op != nil {
		return nil, ErrOperatorExists
	}
	if op, err := s.operators.GetOperatorByUsername(strings.ToLower(input.Username)); err == nil && op != nil {
		return nil, ErrOperatorExists
	}

	// 哈希密码
	passwordHash, err := HashPassword(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	role := input.Role
	if role == "" {
		role = domain.RoleAdmin
	}

	now := time.Now().UTC()
	op := &domain.Operator{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(input.Email),
		Username:     input.Username,
		PasswordHash: passwordHash,
		Role:         role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.operators.SaveOperator(op); err != nil {
		return nil, fmt.Errorf("failed to create operator: %w", err)
	}

	return op, nil
}

// Login 操作员登录
func (s *Service) Login(input LoginInput) (*domain.Operator, error) {
	identifier := strings.ToLower(input.Identifier)

	// 优先按邮箱查找
	op, err := s.operators.GetOperatorByEmail(identifier)
	if err != nil {
		// 如果按邮箱查找失败，尝试按用户名查找
		op, err = s.operators.GetOperatorByUsername(identifier)
		if err != nil {
			return nil, ErrInvalidCredentials
		}
	}

	// 检查操作员是否激活
	if !op.IsActive {
		return nil, ErrOperatorInactive
	}

	// 验证密码
	if !CheckPassword(input.Password, op.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	// 更新最后登录时间
	_ = s.operators.UpdateOperatorLastLogin(op.ID)

	return op, nil
}

// GetOperatorByID 根据 ID 获取操作员
func (s *Service) GetOperatorByID(id string) (*domain.Operator, error) {
	op, err := s.operators.GetOperator(id)
	if err != nil {
		return nil, ErrOperatorNotFound
	}
	return op, nil
}

// ChangePassword 修改密码
func (s *Service) ChangePassword(operatorID, oldPassword, newPassword string) error {
	op, err := s.operators.GetOperator(operatorID)
	if err != nil {
		return ErrOperatorNotFound
	}

	// 验证旧密码
	if !CheckPassword(oldPassword, op.PasswordHash) {
		return errors.New("invalid old password")
	}

	// 验证新密码强度
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}

	// 哈希新密码
	newHash, err := HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	op.PasswordHash = newHash
	return s.operators.SaveOperator(op)
}

// ValidateEmail 验证邮箱格式
func ValidateEmail(email string) bool {
	return emailRegex.MatchString(email)
}

// ValidatePassword 验证密码强度
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return errors.New("password must be at least 8 characters")
	}
	if len(password) > 72 {
		return errors.New("password must be at most 72 characters")
	}
	return nil
}

// HashPassword 哈希密码
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword 检查密码是否匹配
func CheckPassword(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
