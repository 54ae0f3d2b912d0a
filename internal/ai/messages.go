package ai

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
)

// SystemMessage is sent with every request.
const SystemMessage = `Bạn là đầu bếp chuyên nghiệp. Bạn tạo công thức nấu ăn gia đình thực tế, dễ làm, với nguyên liệu có sẵn ở chợ Việt Nam.

# Yêu cầu
- Dùng các nguyên liệu người dùng đưa ra làm chính.
- Không vượt quá lượng calories tối đa cho mỗi khẩu phần.
- Các bước hướng dẫn rõ ràng, bắt đầu từ sơ chế, không đánh số.

# Định dạng
- Chỉ trả về JSON theo schema, không thêm markdown.`

var recipeSchema = func() string {
	r := jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	b, _ := json.Marshal(r.Reflect(&generatedRecipe{}))
	return string(b)
}()

func buildPrompt(req Request) string {
	var b strings.Builder
	b.WriteString("Tạo công thức nấu ăn với:\n")
	fmt.Fprintf(&b, "Nguyên liệu: %s\n", strings.Join(req.Ingredients, ", "))
	fmt.Fprintf(&b, "Loại món: %s\n", req.Category)
	fmt.Fprintf(&b, "Số người: %d\n", req.Servings)
	if req.MaxCalories > 0 {
		fmt.Fprintf(&b, "Calories tối đa: %d/khẩu phần\n", req.MaxCalories)
	}
	if req.CookingTime != "" {
		fmt.Fprintf(&b, "Thời gian: %s\n", req.CookingTime)
	}
	if req.DietPreference != "" {
		fmt.Fprintf(&b, "Chế độ ăn: %s\n", req.DietPreference)
	}
	b.WriteString("\nTrả về JSON theo schema sau:\n")
	b.WriteString(recipeSchema)
	return b.String()
}

func suggestionPrompt(have []string) string {
	return fmt.Sprintf(`Gợi ý 5 nguyên liệu kết hợp với: %s. Trả về JSON: ["item1","item2","item3","item4","item5"]`,
		strings.Join(have, ", "))
}
