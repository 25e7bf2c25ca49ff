package routes

import (
	"voltshop/auth"
	"voltshop/cart"
	"voltshop/coupons"
	"voltshop/courier"
	"voltshop/middleware"
	"voltshop/orders"
	"voltshop/products"
	"voltshop/ratelim"
	"voltshop/shipping"
	"voltshop/warranty"

	"github.com/julienschmidt/httprouter"
)

const (
	roleAdmin = "admin"
	roleStaff = "staff"
)

func AddAuthRoutes(router *httprouter.Router, svc *auth.Service, rl *ratelim.RateLimiter) {
	router.POST("/api/auth/register", rl.Limit(svc.Register))
	router.POST("/api/auth/login", rl.Limit(svc.Login))
	router.POST("/api/auth/guest-session", rl.Limit(svc.GuestSession))
}

func AddProductRoutes(router *httprouter.Router, am *middleware.Auth) {
	router.GET("/api/products", products.ListProducts)
	router.GET("/api/products/:productid", products.GetProduct)
	router.POST("/api/products", am.RequireRole(products.CreateProduct, roleAdmin, roleStaff))
	router.DELETE("/api/products/:productid", am.RequireRole(products.DeleteProduct, roleAdmin))
}

func AddCartRoutes(router *httprouter.Router, svc *cart.Service, am *middleware.Auth) {
	router.GET("/api/cart", am.OptionalAuth(svc.GetCart))
	router.POST("/api/cart", am.OptionalAuth(svc.AddToCart))
	router.PATCH("/api/cart/:itemid", am.OptionalAuth(svc.UpdateItemQuantity))
	router.DELETE("/api/cart/:itemid", am.OptionalAuth(svc.DeleteItem))
}

func AddCouponRoutes(router *httprouter.Router, am *middleware.Auth) {
	router.POST("/api/coupons/validate", coupons.ValidateCoupon)
	router.POST("/api/coupons", am.RequireRole(coupons.CreateCoupon, roleAdmin))
}

func AddShippingRoutes(router *httprouter.Router, am *middleware.Auth) {
	router.GET("/api/shipping-charges", shipping.ListCharges)
	router.POST("/api/shipping-charges", am.RequireRole(shipping.CreateCharge, roleAdmin))
}

func AddOrderRoutes(router *httprouter.Router, svc *orders.Service, am *middleware.Auth, rl *ratelim.RateLimiter) {
	router.POST("/api/orders", rl.Limit(am.OptionalAuth(svc.Checkout)))
	// httprouter cannot mix static and :param segments, so the
	// caller-scoped list and the feed live beside /api/orders.
	router.GET("/api/my-orders", am.OptionalAuth(svc.MyOrders))
	router.GET("/api/orders-feed", am.RequireRole(svc.StatusFeed, roleAdmin, roleStaff))
	router.GET("/api/orders", am.RequireRole(svc.ListOrders, roleAdmin, roleStaff))
	router.GET("/api/orders/:orderid", am.OptionalAuth(svc.GetOrder))
	router.GET("/api/orders/:orderid/invoice", am.Authenticate(svc.DownloadInvoice))
	router.PATCH("/api/orders/:orderid/status", am.RequireRole(svc.UpdateStatus, roleAdmin, roleStaff))
	router.PATCH("/api/orders/:orderid/courier", am.RequireRole(courier.AssignToOrder, roleAdmin, roleStaff))
}

func AddCourierRoutes(router *httprouter.Router, am *middleware.Auth) {
	router.POST("/api/couriers", am.RequireRole(courier.CreateCourier, roleAdmin))
}

func AddWarrantyRoutes(router *httprouter.Router, am *middleware.Auth, publicBaseURL string) {
	router.GET("/api/warranty/:code", warranty.LookupWarranty)
	router.GET("/api/warranty/:code/card", warranty.WarrantyCard(publicBaseURL))
	router.POST("/api/warranty-claims", am.Authenticate(warranty.CreateClaim))
	router.PATCH("/api/warranty-claims/:claimid", am.RequireRole(warranty.ReviewClaim, roleAdmin, roleStaff))
}
