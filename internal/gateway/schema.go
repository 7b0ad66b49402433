package gateway

import (
	"fmt"

	"github.com/graphql-go/graphql"
	"github.com/nao1215/employee-gateway/internal/employee"
)

// newSchema はGraphQLスキーマを構築する。
//
//	type Employee { id: ID!, name: String!, age: Int, employeeClass: String, subjects: [String], attendance: Int }
//	type EmployeePage { content: [Employee], totalElements: Int, totalPages: Int }
//	type Query { employees(page: Int, size: Int, sort: String): EmployeePage, employee(id: ID!): Employee }
//	type Mutation { addEmployee(input: EmployeeInput): Employee, updateEmployee(id: ID!, input: EmployeeInput): Employee }
//	input EmployeeInput { name: String!, age: Int, employeeClass: String, subjects: [String], attendance: Int }
func newSchema(svc EmployeeService) (graphql.Schema, error) {
	r := &resolver{svc: svc}

	employeeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Employee",
		Fields: graphql.Fields{
			"id": &graphql.Field{
				Type:    graphql.NewNonNull(graphql.ID),
				Resolve: resolveEmployeeID,
			},
			"name":          &graphql.Field{Type: graphql.NewNonNull(graphql.String)},
			"age":           &graphql.Field{Type: graphql.Int},
			"employeeClass": &graphql.Field{Type: graphql.String},
			"subjects":      &graphql.Field{Type: graphql.NewList(graphql.String)},
			"attendance":    &graphql.Field{Type: graphql.Int},
		},
	})

	employeePageType := graphql.NewObject(graphql.ObjectConfig{
		Name: "EmployeePage",
		Fields: graphql.Fields{
			"content":       &graphql.Field{Type: graphql.NewList(employeeType)},
			"totalElements": &graphql.Field{Type: graphql.Int},
			"totalPages":    &graphql.Field{Type: graphql.Int},
		},
	})

	employeeInputType := graphql.NewInputObject(graphql.InputObjectConfig{
		Name: "EmployeeInput",
		Fields: graphql.InputObjectConfigFieldMap{
			"name":          &graphql.InputObjectFieldConfig{Type: graphql.NewNonNull(graphql.String)},
			"age":           &graphql.InputObjectFieldConfig{Type: graphql.Int},
			"employeeClass": &graphql.InputObjectFieldConfig{Type: graphql.String},
			"subjects":      &graphql.InputObjectFieldConfig{Type: graphql.NewList(graphql.String)},
			"attendance":    &graphql.InputObjectFieldConfig{Type: graphql.Int},
		},
	})

	query := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"employees": &graphql.Field{
				Type: employeePageType,
				Args: graphql.FieldConfigArgument{
					"page": &graphql.ArgumentConfig{Type: graphql.Int},
					"size": &graphql.ArgumentConfig{Type: graphql.Int},
					"sort": &graphql.ArgumentConfig{Type: graphql.String},
				},
				Resolve: r.listEmployees,
			},
			"employee": &graphql.Field{
				Type: employeeType,
				Args: graphql.FieldConfigArgument{
					"id": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
				},
				Resolve: r.getEmployee,
			},
		},
	})

	mutation := graphql.NewObject(graphql.ObjectConfig{
		Name: "Mutation",
		Fields: graphql.Fields{
			"addEmployee": &graphql.Field{
				Type: employeeType,
				Args: graphql.FieldConfigArgument{
					"input": &graphql.ArgumentConfig{Type: employeeInputType},
				},
				Resolve: r.addEmployee,
			},
			"updateEmployee": &graphql.Field{
				Type: employeeType,
				Args: graphql.FieldConfigArgument{
					"id":    &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.ID)},
					"input": &graphql.ArgumentConfig{Type: employeeInputType},
				},
				Resolve: r.updateEmployee,
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{
		Query:    query,
		Mutation: mutation,
	})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("GraphQLスキーマの構築に失敗: %w", err)
	}
	return schema, nil
}

// resolveEmployeeID は従業員IDを文字列として返す。
func resolveEmployeeID(p graphql.ResolveParams) (interface{}, error) {
	switch emp := p.Source.(type) {
	case *employee.Employee:
		return string(emp.ID), nil
	case employee.Employee:
		return string(emp.ID), nil
	}
	return nil, nil
}
