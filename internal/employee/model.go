package employee

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID は従業員ID。上流APIは数値または文字列で返すため、どちらも文字列として受け取る。
type ID string

// UnmarshalJSON はJSONの数値と文字列の両方を受け付ける。
func (id *ID) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("従業員IDの形式が不正です: %s", string(data))
	}
	*id = ID(n.String())
	return nil
}

// Employee は上流APIが返す従業員。
type Employee struct {
	ID            ID       `json:"id"`
	Name          string   `json:"name"`
	Age           *int     `json:"age"`
	EmployeeClass *string  `json:"employeeClass"`
	Subjects      []string `json:"subjects"`
	Attendance    *int     `json:"attendance"`
}

// EmployeeInput は従業員の作成・更新時に上流APIへ送る内容。
// 指定されなかった任意項目はJSONに含めない。
type EmployeeInput struct {
	Name          string   `json:"name"`
	Age           *int     `json:"age,omitempty"`
	EmployeeClass *string  `json:"employeeClass,omitempty"`
	Subjects      []string `json:"subjects,omitempty"`
	Attendance    *int     `json:"attendance,omitempty"`
}

// Page は従業員一覧の1ページ分。
type Page struct {
	Content       []Employee `json:"content"`
	TotalElements int        `json:"totalElements"`
	TotalPages    int        `json:"totalPages"`
}

// ListParams は一覧取得のページング・ソート条件。nilや空文字列の項目は上流に送らない。
type ListParams struct {
	Page *int
	Size *int
	// Sort は "name,asc" のような形式でそのまま上流に渡す。
	Sort string
}

// decodePage は上流APIの一覧レスポンスをPageに正規化する。
// ページ形式のオブジェクトに加え、従業員の配列がそのまま返る場合も受け付ける。
func decodePage(raw json.RawMessage) (*Page, error) {
	trimmed := bytes.TrimSpace(raw)
	page := &Page{Content: []Employee{}}
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return page, nil
	}

	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &page.Content); err != nil {
			return nil, fmt.Errorf("従業員一覧のデシリアライズに失敗: %w", err)
		}
		if page.Content == nil {
			page.Content = []Employee{}
		}
		return page, nil
	}

	var body struct {
		Content       []Employee `json:"content"`
		TotalElements *int       `json:"totalElements"`
		TotalPages    *int       `json:"totalPages"`
	}
	if err := json.Unmarshal(trimmed, &body); err != nil {
		return nil, fmt.Errorf("従業員一覧のデシリアライズに失敗: %w", err)
	}
	if body.Content != nil {
		page.Content = body.Content
	}
	if body.TotalElements != nil {
		page.TotalElements = *body.TotalElements
	}
	if body.TotalPages != nil {
		page.TotalPages = *body.TotalPages
	}
	return page, nil
}
