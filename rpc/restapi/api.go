package restapi

import (
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/0xMailMan/violette-easya-sub000/common"
	"github.com/0xMailMan/violette-easya-sub000/internal/anchorapi"
)

func writeResponse(w http.ResponseWriter, resp interface{}, err error) {
	if err == nil {
		jsonData, _ := json.Marshal(resp)
		w.Header().Set("Content-Type", "application/json")
		w.Write(jsonData)
	} else {
		fmt.Fprintln(w, err.Error())
	}
}

func readBody(r *http.Request, args interface{}) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(args)
}

// ServerInfoHandler handler
func ServerInfoHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	res, err := anchorapi.GetServerInfo()
	writeResponse(w, res, err)
}

// VersionInfoHandler handler
func VersionInfoHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	res, err := anchorapi.GetVersionInfo()
	writeResponse(w, res, err)
}

// CreateDIDHandler handler
func CreateDIDHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	var args anchorapi.MetadataArgs
	if err := readBody(r, &args); err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := anchorapi.CreateDID(&args)
	writeResponse(w, res, err)
}

// ResolveDIDHandler handler
func ResolveDIDHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	w.WriteHeader(http.StatusOK)
	res, err := anchorapi.ResolveDID(vars["did"])
	writeResponse(w, res, err)
}

// UpdateDIDHandler handler
func UpdateDIDHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	var args anchorapi.MetadataArgs
	if err := readBody(r, &args); err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := anchorapi.UpdateDID(&args)
	writeResponse(w, res, err)
}

// DeleteDIDHandler handler
func DeleteDIDHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	res, err := anchorapi.DeleteDID()
	writeResponse(w, res, err)
}

// GetDIDRecordHandler handler
func GetDIDRecordHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	w.WriteHeader(http.StatusOK)
	res, err := anchorapi.GetDIDRecord(vars["did"])
	writeResponse(w, res, err)
}

// AnchorEntriesHandler handler
func AnchorEntriesHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	var args anchorapi.AnchorArgs
	if err := readBody(r, &args); err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := anchorapi.AnchorEntries(&args)
	writeResponse(w, res, err)
}

// GetAnchorHandler handler
func GetAnchorHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	w.WriteHeader(http.StatusOK)
	res, err := anchorapi.GetAnchor(vars["root"])
	writeResponse(w, res, err)
}

// LatestAnchorsHandler handler
func LatestAnchorsHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	limit, err := getLimitParam(r)
	if err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := anchorapi.GetLatestAnchors(limit)
	writeResponse(w, res, err)
}

// BuildProofHandler handler
func BuildProofHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	var args anchorapi.ProofArgs
	if err := readBody(r, &args); err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := anchorapi.BuildProof(&args)
	writeResponse(w, res, err)
}

// VerifyProofHandler handler
func VerifyProofHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	var args anchorapi.ProofInfo
	if err := readBody(r, &args); err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := anchorapi.VerifyProof(&args)
	writeResponse(w, res, err)
}

// TetherHandler handler
func TetherHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	var args anchorapi.TetherArgs
	if err := readBody(r, &args); err != nil {
		writeResponse(w, nil, err)
		return
	}
	res, err := anchorapi.Tether(&args)
	writeResponse(w, res, err)
}

// GetTetheringsHandler handler
func GetTetheringsHandler(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	w.WriteHeader(http.StatusOK)
	res, err := anchorapi.GetTetherings(vars["did"])
	writeResponse(w, res, err)
}

func getLimitParam(r *http.Request) (int, error) {
	vals := r.URL.Query()
	limit := 20
	limitVal, exist := vals["limit"]
	if exist {
		bi, ok := new(big.Int).SetString(limitVal[0], 0)
		if !ok || !bi.IsUint64() || bi.Uint64() > uint64(common.MaxInt) {
			return limit, fmt.Errorf("wrong limit")
		}
		limit = int(bi.Uint64())
	}
	return limit, nil
}
