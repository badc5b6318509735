package bulkupdate

import (
	"context"

	"github.com/shopspring/decimal"

	"storebridge/internal/core/apperror"
	"storebridge/internal/core/id"
	"storebridge/internal/core/types"
	"storebridge/internal/domain/cascade"
	"storebridge/internal/domain/catalog/item"
	"storebridge/internal/domain/pricing"
	"storebridge/internal/domain/promotion"
	"storebridge/pkg/logger"
)

// Service is the bulk update pipeline. It is stateless; every Process call
// operates only on the snapshots inside the Batch.
type Service struct {
	margins *pricing.MarginResolver
	calc    *pricing.Calculator
	engine  *cascade.Engine
}

// NewService creates a bulk update service.
func NewService(margins *pricing.MarginResolver, calc *pricing.Calculator, engine *cascade.Engine) *Service {
	return &Service{margins: margins, calc: calc, engine: engine}
}

// Process runs every row of the batch through the pipeline. A failing row is
// reported and rolled back in full; the remaining rows still run. The same
// batch processed twice yields identical results and an empty second-pass
// update set.
func (s *Service) Process(ctx context.Context, batch Batch) BatchResult {
	index := cascade.NewIndex(batch.Items)
	ws := newWorkset(&batch)

	out := BatchResult{Created: ws.created}

	for _, row := range batch.Rows {
		res := s.processRow(ctx, ws, index, row)
		if res.Failed() {
			logger.Warn(ctx, "bulk update row failed",
				"item_code", row.ItemCode,
				"units", row.Units,
				"error", res.Error,
			)
		}
		out.Rows = append(out.Rows, res)
	}

	s.collect(ws, &out)

	logger.Info(ctx, "bulk update processed",
		"rows", len(batch.Rows),
		"updated", out.Updated,
		"no_change", out.NoChange,
		"not_found", out.NotFound,
	)
	return out
}

func (s *Service) processRow(ctx context.Context, ws *workset, index *cascade.Index, row Row) RowResult {
	res := RowResult{ItemCode: row.ItemCode, Units: row.Units}

	matches := index.ByKey(item.Key{ItemCode: row.ItemCode, Units: row.Units})
	if len(matches) == 0 {
		ws.notFound++
		res.Error = apperror.NewNotFound("item", row.ItemCode+"/"+row.Units)
		return res
	}

	// All mutations for one row are staged and committed together, so a
	// failure half-way through a multi-SKU row leaves nothing applied.
	st := ws.newStage()
	for _, it := range matches {
		if err := s.applyRow(ctx, st, index, it, row, &res); err != nil {
			res.Error = err
			return res
		}
	}
	st.commit()
	return res
}

func (s *Service) applyRow(ctx context.Context, st *stage, index *cascade.Index, it item.Item, row Row, res *RowResult) error {
	it = st.item(it)
	io := st.instance(it)

	if row.CustomMarginPercent != nil && it.Channel == item.ChannelTalabat {
		if !types.PercentInRange(*row.CustomMarginPercent) {
			return apperror.NewMarginOutOfRange(it.ItemCode, row.CustomMarginPercent.String())
		}
		it.CustomMarginPercent = decimal.NullDecimal{Decimal: *row.CustomMarginPercent, Valid: true}
		st.setItem(it)
	}

	priceLocked := item.EffectivePriceLocked(it, *io)
	statusLocked := item.EffectiveStatusLocked(it, *io)

	var change cascade.ParentChange

	if row.MRP != nil {
		if priceLocked {
			res.SkippedFields = append(res.SkippedFields, "mrp", "selling_price")
		} else {
			calcRes, err := s.calc.Calculate(pricing.CalcInput{
				ItemCode:     it.ItemCode,
				Raw:          *row.MRP,
				Wrap:         it.Wrap,
				WDF:          it.WeightDivisionFactor,
				Channel:      it.Channel,
				CustomMargin: it.CustomMarginPercent,
			})
			if err != nil {
				return err
			}
			io.MRP = *row.MRP
			setSellingPrice(io, calcRes.FinalPrice)
			final := calcRes.FinalPrice
			res.FinalSellingPrice = &final
			res.MarginAmountApplied = calcRes.MarginAmount
			change.MRP = row.MRP
		}
	}

	if row.Cost != nil {
		converted, err := s.calc.ConvertedCost(it.ItemCode, *row.Cost, it.Wrap, it.WeightDivisionFactor)
		if err != nil {
			return err
		}
		io.Cost = *row.Cost
		res.ConvertedCost = &converted
		change.Cost = row.Cost
	}

	if row.Stock != nil {
		stock, err := convertStock(it, *row.Stock)
		if err != nil {
			return err
		}
		io.Stock = stock
		change.Stock = row.Stock
	}

	if statusLocked {
		io.IsActiveInOutlet = false
	}

	changed := change.MRP != nil || change.Cost != nil || change.Stock != nil
	if changed && cascade.Classify(it) == cascade.RoleParent {
		if err := s.cascade(ctx, st, index, it, change, res); err != nil {
			return err
		}
	}

	if row.PromoPrice != nil {
		if priceLocked {
			res.SkippedFields = append(res.SkippedFields, "promo_price")
		} else if err := s.applyPromo(it, io, *row.PromoPrice, res); err != nil {
			return err
		}
	}

	return nil
}

func (s *Service) cascade(ctx context.Context, st *stage, index *cascade.Index, parent item.Item, change cascade.ParentChange, res *RowResult) error {
	batch, err := s.engine.Cascade(index, parent, change)
	if err != nil {
		return err
	}
	if batch.Warning != nil {
		res.Warnings = append(res.Warnings, batch.Warning.Message)
		logger.Warn(ctx, "ambiguous cascade parents",
			"item_code", parent.ItemCode,
			"channel", parent.Channel,
		)
	}

	for _, cu := range batch.Children {
		childIt, ok := st.itemByID(cu.ItemID)
		if !ok {
			return apperror.NewNotFound("item", cu.ItemID)
		}
		cio := st.instance(childIt)

		cc := CascadedChild{ItemCode: cu.ItemCode, Units: cu.Units}

		if cu.MRP != nil {
			if item.EffectivePriceLocked(childIt, *cio) {
				cc.SkippedFields = append(cc.SkippedFields, "mrp", "selling_price")
			} else {
				cio.MRP = *cu.MRP
				if cu.SellingPrice != nil {
					setSellingPrice(cio, *cu.SellingPrice)
					cc.NewSellingPrice = cu.SellingPrice
				}
			}
		}
		if cu.Cost != nil {
			cio.Cost = *cu.Cost
		}
		if cu.Stock != nil {
			cio.Stock = *cu.Stock
			cc.NewStock = cu.Stock
		}
		if item.EffectiveStatusLocked(childIt, *cio) {
			cio.IsActiveInOutlet = false
		}

		res.CascadedChildren = append(res.CascadedChildren, cc)
	}
	return nil
}

func (s *Service) applyPromo(it item.Item, io *item.ItemOutlet, promoPrice types.Money, res *RowResult) error {
	margin, err := s.margins.EffectiveMargin(it.Channel, it.Wrap, it.CustomMarginPercent)
	if err != nil {
		return err
	}
	converted, err := promotion.Convert(promotion.ConvertInput{
		ItemCode:      it.ItemCode,
		PromoPrice:    promoPrice,
		Channel:       it.Channel,
		Wrap:          it.Wrap,
		WDF:           it.WeightDivisionFactor,
		MarginPercent: margin,
	})
	if err != nil {
		return err
	}
	cost, err := s.calc.ConvertedCost(it.ItemCode, io.Cost, it.Wrap, it.WeightDivisionFactor)
	if err != nil {
		return err
	}
	validated, err := promotion.Validate(promotion.ValidateInput{
		ItemCode:       it.ItemCode,
		Channel:        it.Channel,
		Cost:           cost,
		ConvertedPromo: converted,
		SellingPrice:   io.SellingPrice,
	})
	if err != nil {
		return err
	}

	if !io.IsOnPromotion {
		io.OriginalSellingPrice = decimal.NullDecimal{Decimal: io.SellingPrice, Valid: true}
	}
	io.PromoPrice = decimal.NullDecimal{Decimal: promoPrice, Valid: true}
	io.ConvertedPromo = decimal.NullDecimal{Decimal: validated.ConvertedPromo, Valid: true}
	io.SellingPrice = validated.SellingPrice
	io.IsOnPromotion = true

	res.PromoAdjusted = validated.PromoAdjusted
	res.SellingAdjusted = validated.SellingAdjusted
	return nil
}

// setSellingPrice routes a recomputed price to the live selling price, or to
// the restore snapshot while a promotion is running so cancellation lands on
// the fresh price instead of a stale one.
func setSellingPrice(io *item.ItemOutlet, price types.Money) {
	if io.IsOnPromotion {
		io.OriginalSellingPrice = decimal.NullDecimal{Decimal: price, Valid: true}
		return
	}
	io.SellingPrice = price
}

// convertStock turns feed stock into stored stock: KG times WDF for
// weight-based items (packs), pieces divided by the outer case quantity for
// regular items (cases).
func convertStock(it item.Item, stock int) (int, error) {
	switch it.Wrap {
	case item.WrapWeighed:
		wdf, ok := it.WDF()
		if !ok || !wdf.IsPositive() {
			value := "null"
			if ok {
				value = wdf.String()
			}
			return 0, apperror.NewInvalidDivisor(
				"weight_division_factor", it.ItemCode, "stock conversion", value)
		}
		return int(decimal.NewFromInt(int64(stock)).Mul(wdf).IntPart()), nil

	case item.WrapRegular:
		if it.OuterCaseQuantity == nil || *it.OuterCaseQuantity <= 0 {
			value := any("null")
			if it.OuterCaseQuantity != nil {
				value = *it.OuterCaseQuantity
			}
			return 0, apperror.NewInvalidDivisor(
				"outer_case_quantity", it.ItemCode, "stock conversion", value)
		}
		return stock / *it.OuterCaseQuantity, nil
	}
	return stock, nil
}

// collect assembles the final update set: every touched instance that
// actually differs from its pre-batch snapshot, in first-touch order.
func (s *Service) collect(ws *workset, out *BatchResult) {
	out.NotFound = ws.notFound

	for _, iid := range ws.order {
		final := *ws.instances[iid]
		if ws.created[iid] {
			out.Updates = append(out.Updates, final)
			out.Updated++
			continue
		}
		orig := ws.batch.Instances[iid]
		if instanceUnchanged(orig, final) {
			out.NoChange++
			continue
		}
		out.Updates = append(out.Updates, final)
		out.Updated++
	}

	for _, iid := range ws.itemOrder {
		final := ws.items[iid]
		orig, ok := ws.origItems[iid]
		if ok && nullEqual(orig.CustomMarginPercent, final.CustomMarginPercent) {
			continue
		}
		out.MarginUpdates = append(out.MarginUpdates, final)
	}
}

func instanceUnchanged(a, b item.ItemOutlet) bool {
	return DataHash(a.MRP, a.Cost, a.Stock) == DataHash(b.MRP, b.Cost, b.Stock) &&
		a.SellingPrice.Equal(b.SellingPrice) &&
		a.IsOnPromotion == b.IsOnPromotion &&
		a.IsActiveInOutlet == b.IsActiveInOutlet &&
		nullEqual(a.ConvertedPromo, b.ConvertedPromo)
}

func nullEqual(a, b decimal.NullDecimal) bool {
	if a.Valid != b.Valid {
		return false
	}
	return !a.Valid || a.Decimal.Equal(b.Decimal)
}

// workset is the mutable state of one Process call: working copies of items
// and instances, committed row by row.
type workset struct {
	batch *Batch

	origItems map[id.ID]item.Item
	items     map[id.ID]item.Item
	itemOrder []id.ID

	instances map[id.ID]*item.ItemOutlet
	created   map[id.ID]bool
	order     []id.ID

	notFound int
}

func newWorkset(batch *Batch) *workset {
	ws := &workset{
		batch:     batch,
		origItems: make(map[id.ID]item.Item, len(batch.Items)),
		items:     make(map[id.ID]item.Item),
		instances: make(map[id.ID]*item.ItemOutlet),
		created:   make(map[id.ID]bool),
	}
	for _, it := range batch.Items {
		ws.origItems[it.ID] = it
	}
	return ws
}

// stage buffers one row's mutations until the whole row has succeeded.
type stage struct {
	ws      *workset
	items   map[id.ID]item.Item
	insts   map[id.ID]*item.ItemOutlet
	created map[id.ID]bool
	order   []id.ID
}

func (ws *workset) newStage() *stage {
	return &stage{
		ws:      ws,
		items:   make(map[id.ID]item.Item),
		insts:   make(map[id.ID]*item.ItemOutlet),
		created: make(map[id.ID]bool),
	}
}

// item returns the freshest working copy of an item.
func (st *stage) item(it item.Item) item.Item {
	if staged, ok := st.items[it.ID]; ok {
		return staged
	}
	if committed, ok := st.ws.items[it.ID]; ok {
		return committed
	}
	return it
}

func (st *stage) itemByID(iid id.ID) (item.Item, bool) {
	if staged, ok := st.items[iid]; ok {
		return staged, true
	}
	if committed, ok := st.ws.items[iid]; ok {
		return committed, true
	}
	it, ok := st.ws.origItems[iid]
	return it, ok
}

func (st *stage) setItem(it item.Item) {
	st.items[it.ID] = it
}

// instance returns a staged working copy of an item's outlet instance,
// seeding a fresh one when the item has no instance at the target outlet yet.
func (st *stage) instance(it item.Item) *item.ItemOutlet {
	if io, ok := st.insts[it.ID]; ok {
		return io
	}

	var work item.ItemOutlet
	switch {
	case st.ws.instances[it.ID] != nil:
		work = *st.ws.instances[it.ID]
	default:
		snap, ok := st.ws.batch.Instances[it.ID]
		if ok {
			work = snap
		} else {
			work = item.ItemOutlet{
				ID:               id.New(),
				ItemID:           it.ID,
				OutletID:         st.ws.batch.OutletID,
				MRP:              it.MRP,
				Cost:             it.Cost,
				IsActiveInOutlet: true,
			}
			st.created[it.ID] = true
		}
	}

	io := &work
	st.insts[it.ID] = io
	st.order = append(st.order, it.ID)
	return io
}

func (st *stage) commit() {
	for iid, it := range st.items {
		if _, seen := st.ws.items[iid]; !seen {
			st.ws.itemOrder = append(st.ws.itemOrder, iid)
		}
		st.ws.items[iid] = it
	}
	for _, iid := range st.order {
		if _, seen := st.ws.instances[iid]; !seen {
			st.ws.order = append(st.ws.order, iid)
		}
		st.ws.instances[iid] = st.insts[iid]
		if st.created[iid] {
			st.ws.created[iid] = true
		}
	}
}
