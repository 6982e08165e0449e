// Package normalize приводит разнородные поля ответа модели к плоскому
// тексту для хранения. Модель просят вернуть строки, но на практике поле
// может прийти списком, вложенным объектом, числом или вовсе отсутствовать.
package normalize

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Field превращает значение произвольной формы в текст. Одна явная ветка
// на каждую форму: текст, последовательность, объект, отсутствие, скаляр.
// Функция тотальна: любой вход даёт строку, паник нет.
func Field(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		return joinList(val)
	case map[string]any:
		return indentJSON(val)
	default:
		return scalarText(v)
	}
}

// joinList собирает элементы списка в один текстовый блок:
// каждый элемент с маркером "• ", элементы разделены переводом строки.
// Порядок элементов сохраняется.
func joinList(items []any) string {
	if len(items) == 0 {
		return ""
	}

	var b strings.Builder
	for i, item := range items {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString("• ")
		b.WriteString(itemText(item))
	}
	return b.String()
}

// itemText приводит элемент списка к тексту: вложенные структуры
// сериализуются в JSON, скаляры — по общему правилу.
func itemText(item any) string {
	switch val := item.(type) {
	case string:
		return val
	case map[string]any, []any:
		return indentJSON(val)
	default:
		return scalarText(item)
	}
}

// indentJSON сериализует объект в JSON с отступом в два пробела.
// Ошибка сериализации на декодированном JSON невозможна, но на случай
// произвольного входа есть запасной путь через fmt.
func indentJSON(v any) string {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(data)
}

// scalarText приводит скаляр к тексту. json.Unmarshal в any отдаёт числа
// как float64, поэтому форматируем без хвостовых нулей.
func scalarText(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case json.Number:
		return val.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
