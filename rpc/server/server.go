package server

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/gorilla/rpc/v2"
	rpcjson "github.com/gorilla/rpc/v2/json2"

	"github.com/0xMailMan/violette-easya-sub000/log"
	"github.com/0xMailMan/violette-easya-sub000/params"
	"github.com/0xMailMan/violette-easya-sub000/rpc/restapi"
	"github.com/0xMailMan/violette-easya-sub000/rpc/rpcapi"
)

// StartAPIServer start api server
func StartAPIServer() {
	router := initRouter()

	apiPort := params.GetAPIPort()
	apiServer := params.GetConfig().APIServer
	var allowedOrigins []string
	if apiServer != nil {
		allowedOrigins = apiServer.AllowedOrigins
	}

	corsOptions := []handlers.CORSOption{
		handlers.AllowedMethods([]string{"GET", "POST"}),
	}
	if len(allowedOrigins) != 0 {
		corsOptions = append(corsOptions,
			handlers.AllowedHeaders([]string{"X-Requested-With", "Content-Type"}),
			handlers.AllowedOrigins(allowedOrigins),
		)
	}

	log.Info("JSON RPC service listen and serving", "port", apiPort, "allowedOrigins", allowedOrigins)
	svr := http.Server{
		Addr:         fmt.Sprintf(":%v", apiPort),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		Handler:      handlers.CORS(corsOptions...)(router),
	}
	go func() {
		if err := svr.ListenAndServe(); err != nil {
			log.Error("ListenAndServe error", "err", err)
		}
	}()
}

func initRouter() *mux.Router {
	r := mux.NewRouter()

	rpcserver := rpc.NewServer()
	rpcserver.RegisterCodec(rpcjson.NewCodec(), "application/json")
	_ = rpcserver.RegisterService(new(rpcapi.RPCAPI), "anchor")

	r.Handle("/rpc", rpcserver)
	r.HandleFunc("/serverinfo", restapi.ServerInfoHandler).Methods("GET")
	r.HandleFunc("/versioninfo", restapi.VersionInfoHandler).Methods("GET")
	r.HandleFunc("/did/create", restapi.CreateDIDHandler).Methods("POST")
	r.HandleFunc("/did/update", restapi.UpdateDIDHandler).Methods("POST")
	r.HandleFunc("/did/delete", restapi.DeleteDIDHandler).Methods("POST")
	r.HandleFunc("/did/resolve/{did}", restapi.ResolveDIDHandler).Methods("GET")
	r.HandleFunc("/did/record/{did}", restapi.GetDIDRecordHandler).Methods("GET")
	r.HandleFunc("/anchor", restapi.AnchorEntriesHandler).Methods("POST")
	r.HandleFunc("/anchor/latest", restapi.LatestAnchorsHandler).Methods("GET")
	r.HandleFunc("/anchor/{root}", restapi.GetAnchorHandler).Methods("GET")
	r.HandleFunc("/proof", restapi.BuildProofHandler).Methods("POST")
	r.HandleFunc("/proof/verify", restapi.VerifyProofHandler).Methods("POST")
	r.HandleFunc("/tether", restapi.TetherHandler).Methods("POST")
	r.HandleFunc("/tether/{did}", restapi.GetTetheringsHandler).Methods("GET")

	methodsExcluesGet := []string{"POST", "HEAD", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}
	methodsExcluesPost := []string{"GET", "HEAD", "PUT", "DELETE", "CONNECT", "OPTIONS", "TRACE", "PATCH"}

	r.HandleFunc("/serverinfo", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/versioninfo", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/did/create", warnHandler).Methods(methodsExcluesPost...)
	r.HandleFunc("/did/update", warnHandler).Methods(methodsExcluesPost...)
	r.HandleFunc("/did/delete", warnHandler).Methods(methodsExcluesPost...)
	r.HandleFunc("/did/resolve/{did}", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/did/record/{did}", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/anchor", warnHandler).Methods(methodsExcluesPost...)
	r.HandleFunc("/anchor/latest", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/anchor/{root}", warnHandler).Methods(methodsExcluesGet...)
	r.HandleFunc("/proof", warnHandler).Methods(methodsExcluesPost...)
	r.HandleFunc("/proof/verify", warnHandler).Methods(methodsExcluesPost...)
	r.HandleFunc("/tether", warnHandler).Methods(methodsExcluesPost...)
	r.HandleFunc("/tether/{did}", warnHandler).Methods(methodsExcluesGet...)

	return r
}

func warnHandler(w http.ResponseWriter, r *http.Request) {
	fmt.Fprintf(w, "Forbid '%v' on '%v'\n", r.Method, r.RequestURI)
}
