package employee

import (
	"encoding/json"
	"testing"
)

func TestIDUnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want ID
	}{
		{name: "数値", in: `{"id":42}`, want: "42"},
		{name: "文字列", in: `{"id":"emp-7"}`, want: "emp-7"},
		{name: "null", in: `{"id":null}`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var emp Employee
			if err := json.Unmarshal([]byte(tt.in), &emp); err != nil {
				t.Fatalf("Unmarshalでエラーが発生: %v", err)
			}
			if emp.ID != tt.want {
				t.Errorf("ID = %q, want %q", emp.ID, tt.want)
			}
		})
	}

	t.Run("真偽値はエラーになること", func(t *testing.T) {
		t.Parallel()

		var emp Employee
		if err := json.Unmarshal([]byte(`{"id":true}`), &emp); err == nil {
			t.Error("エラーが返されなかった")
		}
	})
}

func TestEmployeeInputOmitsAbsentFields(t *testing.T) {
	t.Parallel()

	body, err := json.Marshal(&EmployeeInput{Name: "Alice"})
	if err != nil {
		t.Fatalf("Marshalでエラーが発生: %v", err)
	}
	if got := string(body); got != `{"name":"Alice"}` {
		t.Errorf("body = %s, want %s", got, `{"name":"Alice"}`)
	}
}

func TestDecodePage(t *testing.T) {
	t.Parallel()

	t.Run("ページ形式をそのまま読み込むこと", func(t *testing.T) {
		t.Parallel()

		page, err := decodePage(json.RawMessage(`{"content":[{"id":1,"name":"A"}],"totalElements":11,"totalPages":2}`))
		if err != nil {
			t.Fatalf("decodePage()でエラーが発生: %v", err)
		}
		if len(page.Content) != 1 || page.Content[0].ID != "1" {
			t.Errorf("Content = %+v", page.Content)
		}
		if page.TotalElements != 11 || page.TotalPages != 2 {
			t.Errorf("TotalElements=%d TotalPages=%d, want 11, 2", page.TotalElements, page.TotalPages)
		}
	})

	t.Run("欠けた項目は空スライスと0になること", func(t *testing.T) {
		t.Parallel()

		page, err := decodePage(json.RawMessage(`{}`))
		if err != nil {
			t.Fatalf("decodePage()でエラーが発生: %v", err)
		}
		if page.Content == nil || len(page.Content) != 0 {
			t.Errorf("Content = %#v, want empty slice", page.Content)
		}
		if page.TotalElements != 0 || page.TotalPages != 0 {
			t.Errorf("TotalElements=%d TotalPages=%d, want 0, 0", page.TotalElements, page.TotalPages)
		}
	})

	t.Run("配列の場合はContentとして扱うこと", func(t *testing.T) {
		t.Parallel()

		page, err := decodePage(json.RawMessage(` [{"id":"a","name":"A"},{"id":"b","name":"B"}]`))
		if err != nil {
			t.Fatalf("decodePage()でエラーが発生: %v", err)
		}
		if len(page.Content) != 2 {
			t.Errorf("len(Content) = %d, want 2", len(page.Content))
		}
		if page.TotalElements != 0 {
			t.Errorf("TotalElements = %d, want 0", page.TotalElements)
		}
	})

	t.Run("空ボディは空のページになること", func(t *testing.T) {
		t.Parallel()

		page, err := decodePage(nil)
		if err != nil {
			t.Fatalf("decodePage()でエラーが発生: %v", err)
		}
		if page.Content == nil {
			t.Error("Content がnil")
		}
	})

	t.Run("不正なJSONはエラーになること", func(t *testing.T) {
		t.Parallel()

		if _, err := decodePage(json.RawMessage(`{"content":"x"}`)); err == nil {
			t.Error("エラーが返されなかった")
		}
	})
}
