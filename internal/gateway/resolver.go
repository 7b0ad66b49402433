package gateway

import (
	"context"

	"github.com/graphql-go/graphql"
	"github.com/nao1215/employee-gateway/internal/employee"
)

// EmployeeService はリゾルバが利用する従業員操作。
type EmployeeService interface {
	List(ctx context.Context, params employee.ListParams) (*employee.Page, error)
	Get(ctx context.Context, id string) (*employee.Employee, error)
	Create(ctx context.Context, input *employee.EmployeeInput) (*employee.Employee, error)
	Update(ctx context.Context, id string, input *employee.EmployeeInput) (*employee.Employee, error)
}

// resolver はGraphQLの引数をEmployeeServiceの呼び出しに変換する。
// 認証と入力検証はEmployeeService側で行う。
type resolver struct {
	svc EmployeeService
}

func (r *resolver) listEmployees(p graphql.ResolveParams) (interface{}, error) {
	page, err := r.svc.List(p.Context, employee.ListParams{
		Page: intArg(p.Args, "page"),
		Size: intArg(p.Args, "size"),
		Sort: stringArg(p.Args, "sort"),
	})
	if err != nil {
		return nil, err
	}
	return page, nil
}

func (r *resolver) getEmployee(p graphql.ResolveParams) (interface{}, error) {
	emp, err := r.svc.Get(p.Context, stringArg(p.Args, "id"))
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (r *resolver) addEmployee(p graphql.ResolveParams) (interface{}, error) {
	emp, err := r.svc.Create(p.Context, inputArg(p.Args))
	if err != nil {
		return nil, err
	}
	return emp, nil
}

func (r *resolver) updateEmployee(p graphql.ResolveParams) (interface{}, error) {
	emp, err := r.svc.Update(p.Context, stringArg(p.Args, "id"), inputArg(p.Args))
	if err != nil {
		return nil, err
	}
	return emp, nil
}

// intArg は整数の引数を返す。指定されていない場合はnil。
func intArg(args map[string]interface{}, name string) *int {
	v, ok := args[name].(int)
	if !ok {
		return nil
	}
	return &v
}

// stringArg は文字列の引数を返す。指定されていない場合は空文字列。
func stringArg(args map[string]interface{}, name string) string {
	v, _ := args[name].(string)
	return v
}

// inputArg は input 引数をEmployeeInputに変換する。指定されていない場合はnil。
func inputArg(args map[string]interface{}) *employee.EmployeeInput {
	raw, ok := args["input"].(map[string]interface{})
	if !ok {
		return nil
	}

	input := &employee.EmployeeInput{
		Name:       stringArg(raw, "name"),
		Age:        intArg(raw, "age"),
		Attendance: intArg(raw, "attendance"),
	}
	if class, ok := raw["employeeClass"].(string); ok {
		input.EmployeeClass = &class
	}
	if subjects, ok := raw["subjects"].([]interface{}); ok {
		input.Subjects = make([]string, 0, len(subjects))
		for _, s := range subjects {
			if str, ok := s.(string); ok {
				input.Subjects = append(input.Subjects, str)
			}
		}
	}
	return input
}
