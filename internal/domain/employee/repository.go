package employee

import "context"

// EmployeeRepository is the identity lookup this service consumes. Employee
// records are owned elsewhere.
type EmployeeRepository interface {
	// GetByID returns ErrEmployeeNotFound when the id is unknown
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive returns every employee whose active flag is set
	ListActive(ctx context.Context) ([]Employee, error)
}

// GetActive resolves id and rejects inactive employees.
func GetActive(ctx context.Context, repo EmployeeRepository, id string) (Employee, error) {
	emp, err := repo.GetByID(ctx, id)
	if err != nil {
		return Employee{}, err
	}
	if !emp.IsActive {
		return Employee{}, ErrEmployeeInactive
	}
	return emp, nil
}
