package repository

import (
	"errors"

	"medisched/cmd/internal/domain/entity"

	"gorm.io/gorm"
)

type DefaultDepartmentRepository struct {
	db *gorm.DB
}

func NewDepartmentRepository(db *gorm.DB) *DefaultDepartmentRepository {
	return &DefaultDepartmentRepository{db: db}
}

func (d *DefaultDepartmentRepository) FindByID(id int) (*entity.Department, error) {
	var dept entity.Department
	err := d.db.First(&dept, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &dept, err
}

func (d *DefaultDepartmentRepository) FindAll() ([]*entity.Department, error) {
	var depts []*entity.Department
	err := d.db.Order("name asc").Find(&depts).Error
	return depts, err
}

func (d *DefaultDepartmentRepository) ExistsByName(name string) (bool, error) {
	var count int64
	err := d.db.Model(&entity.Department{}).Where("name = ?", name).Count(&count).Error
	return count > 0, err
}

func (d *DefaultDepartmentRepository) Save(dept *entity.Department) error {
	return d.db.Save(dept).Error
}

func (d *DefaultDepartmentRepository) Delete(dept *entity.Department) error {
	return d.db.Delete(dept).Error
}
