package handlers

import "github.com/gin-gonic/gin"

// Mount registers every endpoint on the router. Paths keep the shapes the
// existing frontend calls.
func (h *Handler) Mount(r *gin.Engine) {
	// Sessions.
	r.POST("/api/register", h.Register)
	r.POST("/api/checkUser", h.CheckUser)
	r.POST("/api/login", h.Login)
	r.POST("/api/validateSession", h.ValidateSession)
	r.POST("/api/logout", h.Logout)
	r.POST("/api/google-login", h.GoogleLogin)
	r.POST("/api/validateDoctorSession", h.ValidateDoctorSession)
	r.POST("/api/logoutDoctor", h.LogoutDoctor)

	// Balance and purchases.
	r.POST("/api/empresa", h.UpsertCompanyAccount)
	r.GET("/api/saldo/:id_usuario", h.GetBalance)
	r.GET("/api/stock/:id_producto", h.GetStock)
	r.POST("/api/compra", h.Purchase)

	// Product catalog.
	r.GET("/productos", h.ListProducts)
	r.POST("/productos", h.CreateProduct)
	r.PUT("/productos/:id", h.UpdateProduct)
	r.DELETE("/productos/:id", h.DeleteProduct)

	// Patients and clinical history.
	r.GET("/api/pacientes", h.ListPatientRefs)
	r.GET("/pacientes", h.ListPatientSummaries)
	r.GET("/paciente/:id", h.GetPatient)
	r.POST("/historial", h.SaveClinicalReport)
	r.GET("/historial/ultimo/:id_paciente", h.LatestClinicalReport)

	// Reports and device feed.
	r.GET("/api/reporte-ventas", h.SalesReport)
	r.GET("/api/reporte-usuarios", h.UsersReport)
	r.GET("/api/datos", h.GetVitals)
}
