package repo

import (
	"errors"

	"gorm.io/gorm"
)

var ErrAlreadyExists = errors.New("already exists")

type GormRepo struct {
	DB *gorm.DB
}

// PrincipalKind tells which table a principal lives in.
type PrincipalKind string

const (
	KindUser  PrincipalKind = "user"
	KindAdmin PrincipalKind = "admin"
)

type Principal struct {
	Kind PrincipalKind
	ID   string
}
