package wizard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const goodBrief = "We need a developer to build an e-commerce site for $10k in 2 months."

func TestNew_Defaults(t *testing.T) {
	m := New()
	assert.Equal(t, StateSelectingTemplate, m.State())
	assert.Equal(t, "consulting", m.Template())
	assert.Equal(t, "USD", m.Currency())
	assert.Empty(t, m.Brief())
	assert.Empty(t, m.Error())
}

func TestHappyPath(t *testing.T) {
	m := New()

	require.NoError(t, m.SelectTemplate("development"))
	require.NoError(t, m.SelectCurrency("eur"))
	require.NoError(t, m.Continue())
	require.NoError(t, m.SetBrief(goodBrief))
	require.NoError(t, m.Submit())
	assert.Equal(t, StateGenerating, m.State())

	require.NoError(t, m.Succeed())
	// Мастер завершён и готов к следующему запуску
	assert.Equal(t, StateSelectingTemplate, m.State())
	assert.Empty(t, m.Brief())
}

func TestSelectTemplate_Invalid(t *testing.T) {
	m := New()
	err := m.SelectTemplate("legal")
	assert.ErrorIs(t, err, ErrInvalidTemplate)
	// Выбор не изменился
	assert.Equal(t, "consulting", m.Template())
}

func TestSubmit_ShortBriefBlocksTransition(t *testing.T) {
	m := New()
	require.NoError(t, m.Continue())
	require.NoError(t, m.SetBrief("too short"))

	err := m.Submit()
	require.Error(t, err)
	assert.Equal(t, StateEnteringBrief, m.State())
	assert.Contains(t, m.Error(), "Brief must be at least 50 characters")

	// Дополнив текст, пользователь проходит дальше
	require.NoError(t, m.SetBrief(goodBrief))
	require.NoError(t, m.Submit())
	assert.Empty(t, m.Error())
	assert.Equal(t, StateGenerating, m.State())
}

func TestBack_PreservesBrief(t *testing.T) {
	m := New()
	require.NoError(t, m.Continue())
	require.NoError(t, m.SetBrief(goodBrief))

	require.NoError(t, m.Back())
	assert.Equal(t, StateSelectingTemplate, m.State())

	require.NoError(t, m.Continue())
	assert.Equal(t, goodBrief, m.Brief())
}

func TestFail_ReturnsToBriefWithMessage(t *testing.T) {
	m := New()
	require.NoError(t, m.Continue())
	require.NoError(t, m.SetBrief(goodBrief))
	require.NoError(t, m.Submit())

	require.NoError(t, m.Fail())
	assert.Equal(t, StateEnteringBrief, m.State())
	assert.Equal(t, "Failed to generate proposal. Please try again.", m.Error())
	// Текст сохранён для повторной отправки
	assert.Equal(t, goodBrief, m.Brief())
}

func TestWrongStateTransitions(t *testing.T) {
	m := New()

	// С первого шага недоступны действия второго и финальные
	assert.ErrorIs(t, m.SetBrief("x"), ErrWrongState)
	assert.ErrorIs(t, m.Back(), ErrWrongState)
	assert.ErrorIs(t, m.Submit(), ErrWrongState)
	assert.ErrorIs(t, m.Succeed(), ErrWrongState)
	assert.ErrorIs(t, m.Fail(), ErrWrongState)

	require.NoError(t, m.Continue())

	// Со второго шага недоступны действия первого
	assert.ErrorIs(t, m.SelectTemplate("design"), ErrWrongState)
	assert.ErrorIs(t, m.SelectCurrency("eur"), ErrWrongState)
	assert.ErrorIs(t, m.Continue(), ErrWrongState)

	require.NoError(t, m.SetBrief(strings.Repeat("a", 50)))
	require.NoError(t, m.Submit())

	// Во время генерации мастер заморожен
	assert.ErrorIs(t, m.SetBrief("x"), ErrWrongState)
	assert.ErrorIs(t, m.Back(), ErrWrongState)
	assert.ErrorIs(t, m.Submit(), ErrWrongState)
}
