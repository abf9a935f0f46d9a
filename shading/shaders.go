package shading

import (
	"strconv"
)

const vertexSrc = `
layout(location = 0) in vec3 in_position;
layout(location = 1) in vec3 in_normal;
layout(location = 2) in vec2 in_uv;

struct Model
{
    mat4 LS_to_WS;
};
uniform Model uModel;

struct Camera
{
    mat4 WS_to_CS;
};
uniform Camera uCamera;

out vec3 vPositionWS;
out vec3 vNormalWS;

void main()
{
    vec4 positionWS = uModel.LS_to_WS * vec4(in_position, 1.0);
    vPositionWS = positionWS.xyz;
    vNormalWS = normalize((uModel.LS_to_WS * vec4(in_normal, 0.0)).xyz);
    gl_Position = uCamera.WS_to_CS * positionWS;
}
`

const fragmentSrc = `
in vec3 vPositionWS;
in vec3 vNormalWS;

out vec4 outFragColor;

struct Material
{
    vec3 albedo;
    float roughness;
    float metalness;
};
uniform Material uMaterial;

struct CameraFrag
{
    vec3 position;
};
uniform CameraFrag uCameraFrag;

struct Light
{
    vec3 color;
    float intensity;
    vec3 positionWS;
};
uniform Light uLights[NUM_LIGHTS];

// mode: 0 = BRDF, 1 = IBL. tone: 0 = ACES, 1 = Reinhard.
struct Mode
{
    int mode;
    int tone;
};
uniform Mode uMode;

uniform sampler2D uTextureDiffuse;
uniform sampler2D uTextureSpecular;
uniform sampler2D uTexturePreIntBRDF;

const float PI = 3.14159265359;
const float RECIPROCAL_PI = 0.31830988618;
const float RECIPROCAL_PI2 = 0.15915494309;
const float SPECULAR_LEVELS = 5.0;
const float MIN_ROUGHNESS = 0.01;
const float EPSILON = 1e-4;

// From three.js
vec3 sRGBToLinear(vec3 value)
{
    return mix(pow(value * 0.9478672986 + vec3(0.0521327014), vec3(2.4)),
               value * 0.0773993808,
               vec3(lessThanEqual(value, vec3(0.04045))));
}

vec3 linearToSRGB(vec3 value)
{
    return mix(pow(value, vec3(1.0 / 2.4)) * 1.055 - vec3(0.055),
               value * 12.92,
               vec3(lessThanEqual(value, vec3(0.0031308))));
}

float distributionGGX(float NdH, float roughness)
{
    float a2 = roughness * roughness;
    float d = NdH * NdH * (a2 - 1.0) + 1.0;
    return a2 / (PI * d * d);
}

float geometrySchlickGGX(float NdX, float k)
{
    return NdX / (NdX * (1.0 - k) + k);
}

float geometrySmith(float NdV, float NdL, float roughness)
{
    float r = roughness + 1.0;
    float k = r * r / 8.0;
    return geometrySchlickGGX(NdV, k) * geometrySchlickGGX(NdL, k);
}

vec3 fresnelSchlick(float cosTheta, vec3 f0)
{
    return f0 + (1.0 - f0) * pow(1.0 - clamp(cosTheta, 0.0, 1.0), 5.0);
}

vec3 directLighting(vec3 N, vec3 V, vec3 albedo, float roughness, float metalness)
{
    vec3 f0 = mix(vec3(0.04), albedo, metalness);
    float NdV = max(dot(N, V), 0.0);

    vec3 accu = vec3(0.0);
    for (int i = 0; i < NUM_LIGHTS; ++i)
    {
        vec3 toLight = uLights[i].positionWS - vPositionWS;
        float dist2 = max(dot(toLight, toLight), EPSILON);
        vec3 L = toLight * inversesqrt(dist2);
        vec3 H = normalize(V + L);

        float NdL = max(dot(N, L), 0.0);
        float NdH = max(dot(N, H), 0.0);
        float HdV = max(dot(H, V), 0.0);

        vec3 F = fresnelSchlick(HdV, f0);
        float D = distributionGGX(NdH, roughness);
        float G = geometrySmith(NdV, NdL, roughness);
        vec3 specular = F * (D * G / max(4.0 * NdV * NdL, EPSILON));

        vec3 kd = (1.0 - F) * (1.0 - metalness);
        vec3 diffuse = kd * albedo * RECIPROCAL_PI;

        vec3 radiance = sRGBToLinear(uLights[i].color) * (uLights[i].intensity / dist2);
        accu += (diffuse + specular) * radiance * NdL;
    }
    return accu;
}

vec2 cartesianToPolar(vec3 n)
{
    return vec2(atan(n.z, n.x) * RECIPROCAL_PI2 + 0.5,
                asin(clamp(n.y, -1.0, 1.0)) * RECIPROCAL_PI + 0.5);
}

vec3 decodeRGBM(vec4 rgbm)
{
    return 6.0 * rgbm.rgb * rgbm.a;
}

vec2 specularAtlasUV(vec2 uv, float level)
{
    float scale = exp2(-level);
    return vec2(uv.x * scale, 1.0 - scale + uv.y * scale * 0.5);
}

vec3 sampleSpecular(vec3 R, float roughness)
{
    vec2 uv = cartesianToPolar(R);
    float level = roughness * SPECULAR_LEVELS;
    float lo = floor(level);
    float hi = ceil(level);
    vec3 a = decodeRGBM(texture(uTextureSpecular, specularAtlasUV(uv, lo)));
    vec3 b = decodeRGBM(texture(uTextureSpecular, specularAtlasUV(uv, hi)));
    return mix(a, b, level - lo);
}

vec3 imageBasedLighting(vec3 N, vec3 V, vec3 albedo, float roughness, float metalness)
{
    vec3 f0 = mix(vec3(0.04), albedo, metalness);
    float NdV = max(dot(N, V), 0.0);

    vec3 F = fresnelSchlick(NdV, f0);
    vec3 kd = (1.0 - F) * (1.0 - metalness);
    vec3 irradiance = decodeRGBM(texture(uTextureDiffuse, cartesianToPolar(N)));

    vec3 R = reflect(-V, N);
    vec3 prefiltered = sampleSpecular(R, roughness);
    vec2 brdf = texture(uTexturePreIntBRDF, vec2(NdV, roughness)).rg;
    vec3 specular = prefiltered * (f0 * brdf.x + brdf.y);

    return kd * albedo * irradiance + specular;
}

vec3 reinhard(vec3 x)
{
    return x / (x + 1.0);
}

vec3 aces(vec3 x)
{
    const float a = 2.51;
    const float b = 0.03;
    const float c = 2.43;
    const float d = 0.59;
    const float e = 0.14;
    return clamp((x * (a * x + b)) / (x * (c * x + d) + e), 0.0, 1.0);
}

void main()
{
    vec3 N = normalize(vNormalWS);
    vec3 V = normalize(uCameraFrag.position - vPositionWS);
    vec3 albedo = sRGBToLinear(uMaterial.albedo);
    float roughness = clamp(uMaterial.roughness, MIN_ROUGHNESS, 1.0);
    float metalness = clamp(uMaterial.metalness, 0.0, 1.0);

    vec3 color;
    if (uMode.mode == 1)
        color = imageBasedLighting(N, V, albedo, roughness, metalness);
    else
        color = directLighting(N, V, albedo, roughness, metalness);

    color = max(color, vec3(0.0));
    color = uMode.tone == 1 ? reinhard(color) : aces(color);

    // Gamma encoding is always the last step.
    outFragColor = vec4(linearToSRGB(color), 1.0);
}
`

// DefaultLights is the number of point lights the viewer drives.
const DefaultLights = 4

// Sources returns the GLSL 410 core vertex and fragment sources with the
// lights array sized to numLights.
func Sources(numLights int) (vertex, fragment string) {
	if numLights < 1 {
		numLights = 1
	}
	header := "#version 410 core\n#define NUM_LIGHTS " + strconv.Itoa(numLights) + "\n"
	return header + vertexSrc, header + fragmentSrc
}
