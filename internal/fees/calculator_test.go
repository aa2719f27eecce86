package fees

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslationCost(t *testing.T) {
	tcases := []struct {
		Name  string
		Words int
		Want  Money
	}{
		{Name: "no words", Words: 0, Want: 0},
		{Name: "under first tier", Words: 50, Want: Shekels(245)},
		{Name: "exactly first tier", Words: 100, Want: Shekels(245)},
		{Name: "one word into second tier", Words: 101, Want: Shekels(245 + 193)},
		{Name: "end of second tier", Words: 1000, Want: Shekels(245 + 9*193)},
		{Name: "one word into third tier", Words: 1001, Want: Shekels(245 + 9*193 + 96)},
		{Name: "1500 words charge five started hundreds beyond 1000", Words: 1500, Want: Shekels(245 + 9*193 + 5*96)},
		{Name: "1550 words", Words: 1550, Want: Shekels(245 + 9*193 + 6*96)},
	}
	for _, tc := range tcases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, TranslationCost(tc.Words))
		})
	}
}

func TestTranslationBreakdown_sumsToTotal(t *testing.T) {
	for _, words := range []int{1, 99, 250, 1000, 4321} {
		items, total := TranslationBreakdown(words)
		var sum Money
		for _, it := range items {
			sum += it.Amount
		}
		assert.Equal(t, total, sum, "words=%d", words)
	}
}

func TestHalfTranslationCost(t *testing.T) {
	assert.Equal(t, Money(12250), HalfTranslationCost(50))
	assert.Equal(t, Shekels(219), HalfTranslationCost(150))
	assert.Equal(t, Money(0), HalfTranslationCost(0))
}

func TestPhotocopyCost(t *testing.T) {
	tcases := []struct {
		Name   string
		Pages  int
		Copies int
		Want   Money
	}{
		{Name: "single page single copy", Pages: 1, Copies: 1, Want: Shekels(75)},
		{Name: "three pages single copy", Pages: 3, Copies: 1, Want: Shekels(75 + 2*13)},
		{Name: "three pages two copies", Pages: 3, Copies: 2, Want: Shekels(75 + 2*13 + 26 + 2*13)},
		{Name: "single page three copies", Pages: 1, Copies: 3, Want: Shekels(75 + 26 + 26)},
		{Name: "zero pages", Pages: 0, Copies: 1, Want: 0},
	}
	for _, tc := range tcases {
		t.Run(tc.Name, func(t *testing.T) {
			assert.Equal(t, tc.Want, PhotocopyCost(tc.Pages, tc.Copies))
		})
	}
}

func TestPriceLine(t *testing.T) {
	t.Run("signature defaults to first signer", func(t *testing.T) {
		pl, err := PriceLine(Line{Type: Signature})
		require.NoError(t, err)
		assert.Equal(t, "first", pl.SubType)
		assert.Equal(t, 1, pl.Quantity)
		assert.Equal(t, Shekels(193), pl.Cost)
		assert.Equal(t, "אימות חתימה - חותם ראשון", pl.Description)
	})

	t.Run("signature additional copies", func(t *testing.T) {
		pl, err := PriceLine(Line{Type: Signature, SubType: "first", Quantity: 2, Copies: 3})
		require.NoError(t, err)
		assert.Equal(t, Shekels(2*193+2*2*75), pl.Cost)
	})

	t.Run("will with copies and bundled translation", func(t *testing.T) {
		pl, err := PriceLine(Line{Type: Will, Copies: 3, IncludeTranslation: true, Words: 50})
		require.NoError(t, err)
		assert.Equal(t, Shekels(286)+Shekels(2*86)+Money(12250), pl.Cost)
	})

	t.Run("affidavit translation ignored without words", func(t *testing.T) {
		pl, err := PriceLine(Line{Type: Affidavit, SubType: "additional", IncludeTranslation: true})
		require.NoError(t, err)
		assert.Equal(t, Shekels(78), pl.Cost)
	})

	t.Run("translation copies are charged once", func(t *testing.T) {
		pl, err := PriceLine(Line{Type: Translation, Words: 1500, Quantity: 2, Copies: 3})
		require.NoError(t, err)
		assert.Equal(t, Shekels(2*2462+2*75), pl.Cost)
		assert.Equal(t, Shekels(2462), pl.UnitPrice)
	})

	t.Run("photocopy multiplied by quantity", func(t *testing.T) {
		pl, err := PriceLine(Line{Type: Photocopy, Pages: 3, Copies: 2, Quantity: 2})
		require.NoError(t, err)
		assert.Equal(t, Shekels(2*153), pl.Cost)
	})

	t.Run("cancellation certified copy", func(t *testing.T) {
		pl, err := PriceLine(Line{Type: Cancellation, SubType: "registration", Copies: 2})
		require.NoError(t, err)
		assert.Equal(t, Shekels(204+72), pl.Cost)
	})

	t.Run("prenup", func(t *testing.T) {
		pl, err := PriceLine(Line{Type: Prenup, Copies: 2})
		require.NoError(t, err)
		assert.Equal(t, Shekels(435+72), pl.Cost)
	})

	t.Run("commercial document over threshold", func(t *testing.T) {
		pl, err := PriceLine(Line{Type: CommercialDoc, SubType: "over80700"})
		require.NoError(t, err)
		assert.Equal(t, Shekels(2667), pl.Cost)
	})

	t.Run("flat services", func(t *testing.T) {
		for typ, want := range map[ServiceType]Money{
			Alive:           Shekels(193),
			Other:           Shekels(315),
			ForeignLanguage: Shekels(102),
			OutsideOffice:   Shekels(630),
		} {
			pl, err := PriceLine(Line{Type: typ})
			require.NoError(t, err)
			assert.Equal(t, want, pl.Cost, typ)
		}
	})

	t.Run("errors", func(t *testing.T) {
		tcases := []struct {
			Name string
			Line Line
			Err  error
		}{
			{Name: "unknown type", Line: Line{Type: "stamp"}, Err: ErrUnknownService},
			{Name: "unknown sub type", Line: Line{Type: Signature, SubType: "third"}, Err: ErrUnknownSubType},
			{Name: "negative quantity", Line: Line{Type: Signature, Quantity: -1}, Err: ErrInvalidLine},
			{Name: "quantity above limit", Line: Line{Type: Signature, Quantity: 1 << 50}, Err: ErrInvalidLine},
			{Name: "copies above limit", Line: Line{Type: Signature, Copies: MaxUnits + 1}, Err: ErrInvalidLine},
			{Name: "pages above limit", Line: Line{Type: Photocopy, Pages: MaxUnits + 1}, Err: ErrInvalidLine},
			{Name: "words above limit", Line: Line{Type: Translation, Words: 1<<63 - 1}, Err: ErrInvalidLine},
			{Name: "copies on commercial document", Line: Line{Type: CommercialDoc, Copies: 2}, Err: ErrCopiesNotSupported},
			{Name: "translation on signature", Line: Line{Type: Signature, IncludeTranslation: true}, Err: ErrTranslationNotSupported},
		}
		for _, tc := range tcases {
			t.Run(tc.Name, func(t *testing.T) {
				_, err := PriceLine(tc.Line)
				assert.ErrorIs(t, err, tc.Err)
			})
		}
	})
}

func TestCalculate(t *testing.T) {
	t.Run("err, no services", func(t *testing.T) {
		_, err := Calculate(nil)
		assert.ErrorIs(t, err, ErrNoServices)
	})

	t.Run("err, reports the failing line", func(t *testing.T) {
		_, err := Calculate([]Line{{Type: Signature}, {Type: "bogus"}})
		assert.ErrorIs(t, err, ErrUnknownService)
		assert.Contains(t, err.Error(), "line 2")
	})

	t.Run("err, too many lines", func(t *testing.T) {
		lines := make([]Line, MaxLines+1)
		for i := range lines {
			lines[i] = Line{Type: Signature}
		}
		_, err := Calculate(lines)
		assert.ErrorIs(t, err, ErrInvalidLine)
	})

	t.Run("ok, largest quote stays exact", func(t *testing.T) {
		line := Line{Type: Translation, Words: MaxWords, Quantity: MaxUnits, Copies: MaxUnits}
		lines := make([]Line, MaxLines)
		for i := range lines {
			lines[i] = line
		}
		q, err := Calculate(lines)
		require.NoError(t, err)

		single := TranslationCost(MaxWords).Times(MaxUnits) + translationCopy.Times(MaxUnits-1)
		assert.Equal(t, single.Times(MaxLines), q.Subtotal)
		assert.Equal(t, q.Subtotal+q.VAT, q.Total)
		diff := int64(q.VAT)*100 - int64(q.Subtotal)*VATPercent
		assert.True(t, diff > -100 && diff < 100, "vat %s is not 18%% of %s", q.VAT, q.Subtotal)
	})

	t.Run("ok, subtotal plus vat", func(t *testing.T) {
		q, err := Calculate([]Line{
			{Type: Signature, SubType: "first"},
			{Type: Photocopy, Pages: 3, Copies: 2},
		})
		require.NoError(t, err)
		assert.Len(t, q.Lines, 2)
		assert.Equal(t, Shekels(346), q.Subtotal)
		assert.Equal(t, Money(6228), q.VAT)
		assert.Equal(t, Money(40828), q.Total)
	})
}

func TestVAT_rounding(t *testing.T) {
	assert.Equal(t, Money(1), VAT(3))
	assert.Equal(t, Money(0), VAT(2))
	assert.Equal(t, Money(2205), VAT(12250))
}

func TestMoney_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total Money `json:"total"`
	}{Total: 12250})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total": 122.50}`, string(b))

	var got struct {
		Total Money `json:"total"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"total": 39.9}`), &got))
	assert.Equal(t, Money(3990), got.Total)

	_, err = ParseMoney("1.234")
	assert.Error(t, err)
}

func TestSchedule(t *testing.T) {
	s := Schedule()
	require.NotEmpty(t, s)
	assert.Equal(t, Signature, s[0].Type)

	s[0].SubTypes[0].Price = 1
	fresh, ok := Lookup(Signature)
	require.True(t, ok)
	assert.Equal(t, Shekels(193), fresh.SubTypes[0].Price)
}
