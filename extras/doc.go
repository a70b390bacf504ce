// Package extras is the runtime imported by generated builders and binders.
//
// A builder writes extras into a Carrier and returns an Intent naming the
// target it was built for. A binder reads the same keys back into a model
// struct on the receiving side.
//
//	intent := shop.NewCheckoutIntentBuilder().
//		SessionId("s-1").
//		CartId(42).
//		Total(shop.Money(1999)).
//		Coupon(&code).
//		Build()
//
//	var m shop.CheckoutModel
//	err := shop.BindCheckoutModel(&m, intent.Extras)
package extras
