package workspace

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleFor(t *testing.T) {
	tests := []struct {
		itemType  *string
		wantIcon  string
		wantColor string
	}{
		{strPtr("compra"), "🛒", "#10B981"},
		{strPtr("Evento"), "🎉", "#8B5CF6"},
		{strPtr(" tarefa "), "✅", "#3B82F6"},
		{strPtr("nota"), "📝", "#F59E0B"},
		{strPtr("fornecedor"), "🏢", "#6366F1"},
		{strPtr("pagamento"), "💰", "#EF4444"},
		{strPtr("contrato"), "📄", "#06B6D4"},
		{strPtr("outro"), "📁", "#3B82F6"},
		{nil, "📁", "#3B82F6"},
	}
	for _, tt := range tests {
		icon, color := StyleFor(tt.itemType)
		assert.Equal(t, tt.wantIcon, icon)
		assert.Equal(t, tt.wantColor, color)
	}
}
